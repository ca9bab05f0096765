package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/feedback360-backend/internal/domain/feedback"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/aggregate"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/chart"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/compare"
	"github.com/yungbote/feedback360-backend/internal/observability"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/artifacts"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/platform/webhook"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

// ErrChartFailed wraps every rasterizer failure. No partial image is returned.
var ErrChartFailed = errors.New("chart rendering failed")

const reportDateLayout = "2006-01-02"

// ReportRequest overrides the defaults derived from the manager's data.
type ReportRequest struct {
	PreparedFor     string `json:"prepared_for"`
	RespondentCount *int   `json:"respondent_count"`
	ReportDate      string `json:"report_date"`
}

// ReportPayload is the document-generation webhook body.
type ReportPayload struct {
	PreparedFor       string `json:"PREPARED_FOR"`
	RespondentCount   string `json:"RESPONDENT_COUNT"`
	ReportDate        string `json:"REPORT_DATE"`
	FeedbackProviders string `json:"FEEDBACK_PROVIDERS"`
	ComparisonChart   string `json:"COMPARISON_CHART_BASE64"`
}

type ReportDelivery string

const (
	DeliveryQueued  ReportDelivery = "queued"
	DeliverySkipped ReportDelivery = "skipped"
)

// ReportReceipt describes an accepted report request. Delivery happens later.
type ReportReceipt struct {
	ManagerName     string         `json:"manager_name"`
	PreparedFor     string         `json:"prepared_for"`
	RespondentCount string         `json:"respondent_count"`
	ReportDate      string         `json:"report_date"`
	ArtifactKey     string         `json:"artifact_key,omitempty"`
	ArtifactURL     string         `json:"artifact_url,omitempty"`
	Delivery        ReportDelivery `json:"delivery"`
}

type ReportService interface {
	Chart(ctx context.Context, managerName string) ([]byte, error)
	BuildPayload(ctx context.Context, managerName string, req ReportRequest) (ReportPayload, []byte, error)
	Request(ctx context.Context, managerName string, req ReportRequest) (*ReportReceipt, error)
	// Wait blocks until every in-flight delivery has finished.
	Wait()
}

type ReportConfig struct {
	// DeliveryTimeout bounds one background webhook delivery.
	DeliveryTimeout time.Duration
	Now             func() time.Time
}

type reportService struct {
	log         *logger.Logger
	aggregation AggregationService
	renderer    *chart.Renderer
	store       artifacts.Store
	webhook     webhook.Client
	emitter     realtime.Emitter
	cfg         ReportConfig
	inflight    sync.WaitGroup
}

// NewReportService wires report generation. store and hook may be nil: the
// chart is then not archived and delivery is skipped.
func NewReportService(
	log *logger.Logger,
	aggregation AggregationService,
	renderer *chart.Renderer,
	store artifacts.Store,
	hook webhook.Client,
	emitter realtime.Emitter,
	cfg ReportConfig,
) ReportService {
	if emitter == nil {
		emitter = realtime.Nop()
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 2 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &reportService{
		log:         log.With("service", "ReportService"),
		aggregation: aggregation,
		renderer:    renderer,
		store:       store,
		webhook:     hook,
		emitter:     emitter,
		cfg:         cfg,
	}
}

func (rs *reportService) render(ctx context.Context, managerName string, c compare.Comparison) ([]byte, error) {
	start := time.Now()
	png, err := rs.renderer.Render(ctx, managerName, c)
	if err != nil {
		observability.Current().ObserveChartRender("error", time.Since(start))
		rs.log.Error("Chart render failed", "manager_name", managerName, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrChartFailed, err)
	}
	observability.Current().ObserveChartRender("ok", time.Since(start))
	return png, nil
}

func (rs *reportService) Chart(ctx context.Context, managerName string) ([]byte, error) {
	c, agg, err := rs.aggregation.Comparison(ctx, managerName)
	if err != nil {
		return nil, err
	}
	return rs.render(ctx, agg.ManagerName, c)
}

func (rs *reportService) BuildPayload(ctx context.Context, managerName string, req ReportRequest) (ReportPayload, []byte, error) {
	c, agg, err := rs.aggregation.Comparison(ctx, managerName)
	if err != nil {
		return ReportPayload{}, nil, err
	}

	preparedFor := strings.TrimSpace(req.PreparedFor)
	if preparedFor == "" {
		preparedFor = agg.ManagerName
	}
	count := agg.SurveyTypeCounts.Total()
	if req.RespondentCount != nil {
		if *req.RespondentCount < 0 {
			return ReportPayload{}, nil, fmt.Errorf("%w: respondent_count must not be negative", apperr.ErrInvalidArgument)
		}
		count = *req.RespondentCount
	}
	date := strings.TrimSpace(req.ReportDate)
	if date == "" {
		date = rs.cfg.Now().UTC().Format(reportDateLayout)
	} else if _, err := time.Parse(reportDateLayout, date); err != nil {
		return ReportPayload{}, nil, fmt.Errorf("%w: report_date must be YYYY-MM-DD", apperr.ErrInvalidArgument)
	}

	png, err := rs.render(ctx, agg.ManagerName, c)
	if err != nil {
		return ReportPayload{}, nil, err
	}

	return ReportPayload{
		PreparedFor:       preparedFor,
		RespondentCount:   strconv.Itoa(count),
		ReportDate:        date,
		FeedbackProviders: strings.Join(feedbackProviders(agg), "\n"),
		ComparisonChart:   base64.StdEncoding.EncodeToString(png),
	}, png, nil
}

// feedbackProviders collects peer, direct and manager comments. Self comments
// are not part of the report.
func feedbackProviders(agg aggregate.AggregatedSubmission) []string {
	var out []string
	for _, r := range survey.OtherRoles {
		for _, c := range agg.CommentsFor(r) {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func (rs *reportService) Request(ctx context.Context, managerName string, req ReportRequest) (*ReportReceipt, error) {
	payload, png, err := rs.BuildPayload(ctx, managerName, req)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(managerName)
	receipt := &ReportReceipt{
		ManagerName:     name,
		PreparedFor:     payload.PreparedFor,
		RespondentCount: payload.RespondentCount,
		ReportDate:      payload.ReportDate,
		Delivery:        DeliverySkipped,
	}

	if rs.store != nil {
		key := fmt.Sprintf("reports/%s/%d.png", feedback.ManagerSlug(name), rs.cfg.Now().UnixNano())
		obj, err := rs.store.Put(ctx, key, png, "image/png")
		if err != nil {
			rs.log.Warn("Failed to archive report chart (ignored)", "manager_name", name, "key", key, "error", err)
		} else {
			receipt.ArtifactKey = obj.Key
			receipt.ArtifactURL = obj.URL
		}
	}

	rs.emitter.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelAdmin, Event: realtime.SSEEventReportRequested, Data: receipt})

	if rs.webhook == nil {
		rs.log.Warn("Report webhook not configured; delivery skipped", "manager_name", name)
		observability.Current().IncWebhookDelivery("skipped")
		return receipt, nil
	}

	receipt.Delivery = DeliveryQueued
	rs.inflight.Add(1)
	go rs.deliver(context.WithoutCancel(ctx), name, payload)
	return receipt, nil
}

func (rs *reportService) deliver(parent context.Context, managerName string, payload ReportPayload) {
	defer rs.inflight.Done()
	ctx, cancel := context.WithTimeout(parent, rs.cfg.DeliveryTimeout)
	defer cancel()

	res, err := rs.webhook.Post(ctx, payload)
	if err != nil {
		observability.Current().IncWebhookDelivery("error")
		rs.log.Error("Report webhook delivery failed", "manager_name", managerName, "error", err)
		return
	}
	observability.Current().IncWebhookDelivery("ok")
	rs.log.Info("Report webhook delivered", "manager_name", managerName, "status", res.StatusCode, "attempts", res.Attempts)
	rs.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelAdmin,
		Event:   realtime.SSEEventReportDelivered,
		Data:    map[string]any{"manager_name": managerName, "status": res.StatusCode},
	})
}

func (rs *reportService) Wait() { rs.inflight.Wait() }

