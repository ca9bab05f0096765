package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/feedback360-backend/internal/http"
	httpH "github.com/yungbote/feedback360-backend/internal/http/handlers"
	httpMW "github.com/yungbote/feedback360-backend/internal/http/middleware"
	"github.com/yungbote/feedback360-backend/internal/observability"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Survey       *httpH.SurveyHandler
	Submission   *httpH.SubmissionHandler
	Manager      *httpH.ManagerHandler
	Export       *httpH.ExportHandler
	Admin        *httpH.AdminHandler
	CustomSurvey *httpH.CustomSurveyHandler
	Realtime     *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(services.Auth),
		Survey:       httpH.NewSurveyHandler(services.SurveyConfig),
		Submission:   httpH.NewSubmissionHandler(services.Submissions),
		Manager:      httpH.NewManagerHandler(services.Aggregation, services.Submissions, services.Reports),
		Export:       httpH.NewExportHandler(services.Export),
		Admin:        httpH.NewAdminHandler(services.Stats, services.DemoData),
		CustomSurvey: httpH.NewCustomSurveyHandler(services.CustomSurvey),
		Realtime:     httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         cfg.ServiceName,
		CORSOrigins:         cfg.CORSOrigins,
		AuthMiddleware:      middleware.Auth,
		AuthHandler:         handlers.Auth,
		SurveyHandler:       handlers.Survey,
		SubmissionHandler:   handlers.Submission,
		ManagerHandler:      handlers.Manager,
		ExportHandler:       handlers.Export,
		AdminHandler:        handlers.Admin,
		CustomSurveyHandler: handlers.CustomSurvey,
		RealtimeHandler:     handlers.Realtime,
		HealthHandler:       handlers.Health,
	})
}
