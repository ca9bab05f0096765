package http

import (
	"github.com/gin-gonic/gin"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	httpH "github.com/yungbote/feedback360-backend/internal/http/handlers"
	httpMW "github.com/yungbote/feedback360-backend/internal/http/middleware"
	"github.com/yungbote/feedback360-backend/internal/observability"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	SurveyHandler       *httpH.SurveyHandler
	SubmissionHandler   *httpH.SubmissionHandler
	ManagerHandler      *httpH.ManagerHandler
	ExportHandler       *httpH.ExportHandler
	AdminHandler        *httpH.AdminHandler
	CustomSurveyHandler *httpH.CustomSurveyHandler
	RealtimeHandler     *httpH.RealtimeHandler
	HealthHandler       *httpH.HealthHandler
}

var respondentAccess = []types.Access{types.AccessSelf, types.AccessPeer, types.AccessDirect, types.AccessManager}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(httpMW.Tracing(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		respondent := protected.Group("/")
		respondent.Use(cfg.AuthMiddleware.RequireAccess(respondentAccess...))

		if cfg.AuthHandler != nil {
			protected.GET("/auth/session", cfg.AuthHandler.Session)
		}
		if cfg.SurveyHandler != nil {
			respondent.GET("/surveys/:role", cfg.SurveyHandler.GetSections)
		}
		if cfg.SubmissionHandler != nil {
			respondent.POST("/submissions", cfg.SubmissionHandler.Submit)
		}
		if cfg.CustomSurveyHandler != nil {
			respondent.GET("/custom-surveys/:id", cfg.CustomSurveyHandler.Get)
			respondent.POST("/custom-surveys/:id/responses", cfg.CustomSurveyHandler.Respond)
		}
	}

	admin := protected.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAccess())
	{
		if cfg.SubmissionHandler != nil {
			admin.GET("/submissions", cfg.SubmissionHandler.List)
			admin.GET("/submissions/:id", cfg.SubmissionHandler.Get)
			admin.PATCH("/submissions/:id", cfg.SubmissionHandler.Update)
			admin.DELETE("/submissions/:id", cfg.SubmissionHandler.Delete)
			admin.POST("/submissions/bulk-delete", cfg.SubmissionHandler.BulkDelete)
			admin.DELETE("/submissions", cfg.SubmissionHandler.Clear)
		}

		if cfg.ManagerHandler != nil {
			admin.GET("/managers", cfg.ManagerHandler.List)
			admin.GET("/managers/:name", cfg.ManagerHandler.Get)
			admin.DELETE("/managers/:name", cfg.ManagerHandler.Delete)
			admin.GET("/managers/:name/comparison", cfg.ManagerHandler.Comparison)
			admin.GET("/managers/:name/chart.png", cfg.ManagerHandler.Chart)
			admin.POST("/managers/:name/report", cfg.ManagerHandler.Report)
		}

		if cfg.ExportHandler != nil {
			admin.GET("/export/submissions", cfg.ExportHandler.Submissions)
			admin.GET("/export/managers/:name", cfg.ExportHandler.Manager)
		}

		if cfg.AdminHandler != nil {
			admin.GET("/stats", cfg.AdminHandler.Stats)
			admin.POST("/demo-data", cfg.AdminHandler.DemoData)
		}

		if cfg.SurveyHandler != nil {
			admin.GET("/survey-config", cfg.SurveyHandler.GetConfig)
			admin.PUT("/survey-config", cfg.SurveyHandler.PutConfig)
			admin.POST("/survey-config/reset", cfg.SurveyHandler.ResetConfig)
		}

		if cfg.CustomSurveyHandler != nil {
			admin.GET("/custom-surveys", cfg.CustomSurveyHandler.List)
			admin.POST("/custom-surveys", cfg.CustomSurveyHandler.Create)
			admin.PUT("/custom-surveys/:id", cfg.CustomSurveyHandler.Update)
			admin.DELETE("/custom-surveys/:id", cfg.CustomSurveyHandler.Delete)
			admin.GET("/custom-surveys/:id/responses", cfg.CustomSurveyHandler.Responses)
		}

		if cfg.AuthHandler != nil {
			admin.PUT("/credentials/:access", cfg.AuthHandler.ChangePassword)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			admin.GET("/events", cfg.RealtimeHandler.Events)
		}
	}

	return r
}
