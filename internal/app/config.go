package app

import (
	"time"

	"github.com/yungbote/feedback360-backend/internal/data/db"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/chart"
	"github.com/yungbote/feedback360-backend/internal/platform/artifacts"
	"github.com/yungbote/feedback360-backend/internal/platform/envutil"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/platform/webhook"
	"github.com/yungbote/feedback360-backend/internal/realtime/bus"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	Address         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	DB        db.Config
	Auth      services.AuthConfig
	Artifacts artifacts.Config
	// ArtifactsRequired makes an unreachable artifact store fatal instead of
	// disabling chart archiving.
	ArtifactsRequired bool
	Webhook           webhook.Config
	Chart             chart.Config
	Bus               bus.Config
	Report            services.ReportConfig
	SSEHeartbeat      time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:     envutil.String("SERVICE_NAME", "feedback360"),
		Environment:     envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", "dev"),
		Address:         ":" + envutil.String("PORT", "8080"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),

		DB:                db.ConfigFromEnv(),
		Auth:              services.AuthConfigFromEnv(),
		Artifacts:         artifacts.ConfigFromEnv(),
		ArtifactsRequired: envutil.Bool("ARTIFACT_STORE_REQUIRED", false),
		Webhook:           webhook.ConfigFromEnv(),
		Chart: chart.Config{
			Scale:        envutil.Float("CHART_SCALE", 2.5),
			MaxHeight:    envutil.Int("CHART_MAX_HEIGHT", 16000),
			FontPath:     envutil.String("CHART_FONT_PATH", ""),
			BoldFontPath: envutil.String("CHART_BOLD_FONT_PATH", ""),
		},
		Bus: bus.ConfigFromEnv(),
		Report: services.ReportConfig{
			DeliveryTimeout: envutil.Duration("REPORT_DELIVERY_TIMEOUT", 2*time.Minute),
		},
		SSEHeartbeat: envutil.Duration("SSE_HEARTBEAT", 15*time.Second),
	}
	if log != nil {
		log.Info("Config loaded",
			"service", cfg.ServiceName,
			"env", cfg.Environment,
			"address", cfg.Address,
			"db_driver", cfg.DB.Driver,
			"artifact_driver", cfg.Artifacts.Driver,
			"webhook_configured", cfg.Webhook.URL != "",
			"redis_configured", cfg.Bus.Addr != "",
		)
	}
	return cfg
}
