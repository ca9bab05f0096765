package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Submissions  services.SubmissionService
	SurveyConfig services.SurveyConfigService
	Aggregation  services.AggregationService
	Reports      services.ReportService
	Stats        services.StatsService
	Export       services.ExportService
	CustomSurvey services.CustomSurveyService
	DemoData     services.DemoDataService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Repos, clients Clients, emitter realtime.Emitter) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(db, log, reposet.RoleCredential, cfg.Auth)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	submissions := services.NewSubmissionService(db, log, reposet.Submission, emitter)
	aggregation := services.NewAggregationService(db, log, reposet.Submission, reposet.SurveyConfig)
	reports := services.NewReportService(log, aggregation, clients.Chart, clients.Artifacts, clients.Webhook, emitter, cfg.Report)

	return Services{
		Auth:         auth,
		Submissions:  submissions,
		SurveyConfig: services.NewSurveyConfigService(log, reposet.SurveyConfig, emitter),
		Aggregation:  aggregation,
		Reports:      reports,
		Stats:        services.NewStatsService(db, log, reposet.Submission, aggregation),
		Export:       services.NewExportService(log, submissions, aggregation),
		CustomSurvey: services.NewCustomSurveyService(db, log, reposet.CustomSurvey, reposet.Submission, emitter),
		DemoData:     services.NewDemoDataService(log, reposet.SurveyConfig, submissions),
	}, nil
}
