package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/feedback360-backend/internal/modules/feedback/chart"
	"github.com/yungbote/feedback360-backend/internal/platform/artifacts"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/platform/webhook"
	"github.com/yungbote/feedback360-backend/internal/realtime/bus"
)

type Clients struct {
	SSEBus    bus.Bus
	Artifacts artifacts.Store
	Webhook   webhook.Client
	Chart     *chart.Renderer
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.Bus.Addr) != "" {
		b, err := bus.NewRedisBus(ctx, log, cfg.Bus)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	// Artifacts
	store, err := resolveArtifactStore(ctx, log, cfg.Artifacts, cfg.ArtifactsRequired)
	if err != nil {
		closeBus(sseBus)
		return Clients{}, err
	}

	// Report webhook
	var hook webhook.Client
	if strings.TrimSpace(cfg.Webhook.URL) != "" {
		hook, err = webhook.New(log, cfg.Webhook)
		if err != nil {
			closeBus(sseBus)
			return Clients{}, fmt.Errorf("init report webhook: %w", err)
		}
	} else {
		log.Warn("REPORT_WEBHOOK_URL not set; report delivery disabled")
	}

	renderer, err := chart.NewRenderer(log, cfg.Chart)
	if err != nil {
		closeBus(sseBus)
		return Clients{}, fmt.Errorf("init chart renderer: %w", err)
	}

	return Clients{
		SSEBus:    sseBus,
		Artifacts: store,
		Webhook:   hook,
		Chart:     renderer,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	closeBus(c.SSEBus)
}

func closeBus(b bus.Bus) {
	if b != nil {
		_ = b.Close()
	}
}
