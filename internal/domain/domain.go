package domain

import (
	"github.com/yungbote/feedback360-backend/internal/domain/auth"
	"github.com/yungbote/feedback360-backend/internal/domain/feedback"
	"github.com/yungbote/feedback360-backend/internal/domain/settings"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
)

type (
	Role           = survey.Role
	SurveyConfig   = survey.Config
	SurveySection  = survey.Section
	SurveyQuestion = survey.Question
	CustomSurvey   = survey.CustomSurvey
	CustomQuestion = survey.CustomQuestion

	Submission = feedback.Submission
	Responses  = feedback.Responses
	Answer     = feedback.Answer

	Setting        = settings.Setting
	Access         = auth.Access
	RoleCredential = auth.RoleCredential
)

const (
	RoleSelf    = survey.RoleSelf
	RolePeer    = survey.RolePeer
	RoleDirect  = survey.RoleDirect
	RoleManager = survey.RoleManager
	RoleCustom  = survey.RoleCustom

	AccessAdmin   = auth.AccessAdmin
	AccessSelf    = auth.AccessSelf
	AccessPeer    = auth.AccessPeer
	AccessDirect  = auth.AccessDirect
	AccessManager = auth.AccessManager

	StatusCompleted = feedback.StatusCompleted
	UnknownManager  = feedback.UnknownManager
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&feedback.Submission{},
		&survey.CustomSurvey{},
		&settings.Setting{},
		&auth.RoleCredential{},
	}
}
