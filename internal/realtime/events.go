package realtime

type SSEEvent string

const (
	SSEEventSubmissionCreated   SSEEvent = "submission.created"
	SSEEventSubmissionUpdated   SSEEvent = "submission.updated"
	SSEEventSubmissionDeleted   SSEEvent = "submission.deleted"
	SSEEventManagerDeleted      SSEEvent = "manager.deleted"
	SSEEventSurveyConfigUpdated SSEEvent = "survey_config.updated"
	SSEEventReportRequested     SSEEvent = "report.requested"
	SSEEventReportDelivered     SSEEvent = "report.delivered"
)

// ChannelAdmin carries every event admins care about.
const ChannelAdmin = "admin"

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
