package repos

import (
	"github.com/yungbote/feedback360-backend/internal/data/repos/auth"
	"github.com/yungbote/feedback360-backend/internal/data/repos/feedback"
	"github.com/yungbote/feedback360-backend/internal/data/repos/settings"
	"github.com/yungbote/feedback360-backend/internal/data/repos/survey"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SubmissionRepo = feedback.SubmissionRepo
type SubmissionFilter = feedback.SubmissionFilter
type SubmissionUpdate = feedback.SubmissionUpdate

type SettingRepo = settings.SettingRepo
type SurveyConfigRepository = survey.ConfigRepository
type CustomSurveyRepo = survey.CustomSurveyRepo
type RoleCredentialRepo = auth.RoleCredentialRepo

type Repos struct {
	Submission     SubmissionRepo
	Setting        SettingRepo
	SurveyConfig   SurveyConfigRepository
	CustomSurvey   CustomSurveyRepo
	RoleCredential RoleCredentialRepo
}

func New(db *gorm.DB, log *logger.Logger, defaults survey.DefaultsFunc) Repos {
	settingRepo := settings.NewSettingRepo(db, log)
	return Repos{
		Submission:     feedback.NewSubmissionRepo(db, log),
		Setting:        settingRepo,
		SurveyConfig:   survey.NewConfigRepository(settingRepo, defaults, log),
		CustomSurvey:   survey.NewCustomSurveyRepo(db, log),
		RoleCredential: auth.NewRoleCredentialRepo(db, log),
	}
}
