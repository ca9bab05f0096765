package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/feedback360-backend/internal/data/db"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	apphttp "github.com/yungbote/feedback360-backend/internal/http"
	"github.com/yungbote/feedback360-backend/internal/observability"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"github.com/yungbote/feedback360-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Repos
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New connects storage, seeds credentials and wires every layer. The caller
// owns the returned App and must Close it.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	metrics := observability.Init(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.New(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}

	hub := realtime.NewSSEHub(log,
		realtime.WithHeartbeat(cfg.SSEHeartbeat),
		realtime.WithClientGauge(metrics.SetRealtimeClients),
	)
	var emitter realtime.Emitter = &realtime.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emitter = &realtime.BusEmitter{Bus: clients.SSEBus, Fallback: hub, Log: log}
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, emitter)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		return nil, err
	}
	if err := serviceset.Auth.SeedCredentials(ctx); err != nil {
		clients.Close()
		_ = dbService.Close()
		return nil, fmt.Errorf("seed credentials: %w", err)
	}

	handlerset := wireHandlers(log, theDB, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		SSEHub:       hub,
		Metrics:      metrics,
		Server:       wireServer(log, cfg, metrics, handlerset, middleware),
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and the background collectors until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
		a.Metrics.StartRedisCollector(gctx, a.Log, bus.Client(a.Clients.SSEBus))
	}
	a.Metrics.StartDBCollector(gctx, a.Log, a.DB)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "address", a.Cfg.Address)
		return a.Server.Run(gctx, a.Cfg.Address, a.Cfg.ShutdownTimeout)
	})
	err := g.Wait()
	// Let queued report deliveries finish before storage closes.
	a.Services.Reports.Wait()
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
