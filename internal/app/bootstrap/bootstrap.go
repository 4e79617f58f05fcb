package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationservice "electra/contexts/election-ops/notification-service"
	notificationpostgres "electra/contexts/election-ops/notification-service/adapters/postgres"
	sessionservice "electra/contexts/election-ops/session-service"
	sessionpostgres "electra/contexts/election-ops/session-service/adapters/postgres"
	"electra/internal/platform/config"
	"electra/internal/platform/db"
	"electra/internal/platform/httpserver"
	"electra/internal/platform/mailer"
	"electra/internal/platform/push"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	hub       *push.Hub
	heartbeat bool
	logger    *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	sessions     sessionservice.Module
	pollInterval time.Duration
	pollWarmup   time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	hub := push.NewHub(logger)
	sessions, notifications := buildModules(pg, hub, cfg, logger)

	server := httpserver.New(sessions, notifications, hub, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:    server,
		postgres:  pg,
		hub:       hub,
		heartbeat: cfg.EnablePushHeartbeat,
		logger:    logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	// The worker has no live connections; pushes from its dispatches are
	// no-ops on an empty hub while the durable events remain authoritative.
	hub := push.NewHub(logger)
	sessions, _ := buildModules(pg, hub, cfg, logger)

	return &WorkerApp{
		postgres:     pg,
		sessions:     sessions,
		pollInterval: cfg.PollInterval,
		pollWarmup:   cfg.PollWarmup,
		logger:       logger,
	}, nil
}

func buildModules(pg *db.Postgres, hub *push.Hub, cfg config.Config, logger *slog.Logger) (sessionservice.Module, notificationservice.Module) {
	sessionRepo := sessionpostgres.NewRepository(pg.DB, logger)
	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	directory := notificationpostgres.NewDirectory(pg.DB, logger)

	var mail *mailer.Resend
	if cfg.EnableLifecycleEmail && strings.TrimSpace(cfg.ResendAPIKey) != "" {
		mail = mailer.NewResend(cfg.ResendAPIKey, cfg.EmailFrom, logger)
	}

	notifications := notificationservice.NewModule(notificationservice.Dependencies{
		Notifications: notificationRepo,
		Receipts:      notificationRepo,
		Directory:     directory,
		Sessions:      sessionCatalog{repo: sessionRepo},
		Whitelist:     directory,
		Pusher:        hub,
		Mailer:        nilIfUnset(mail),
		Clock:         notificationpostgres.SystemClock{},
		IDGen:         notificationpostgres.UUIDGenerator{},
		PageSize:      cfg.InboxPageSize,
		EmailBatch:    cfg.EmailBatch,
		Logger:        logger,
	})

	sessions := sessionservice.NewModule(sessionservice.Dependencies{
		Sessions:    sessionRepo,
		Lifecycle:   sessionRepo,
		Announcer:   transitionAnnouncer{announce: notifications.Announce},
		Clock:       sessionpostgres.SystemClock{},
		IDGen:       sessionpostgres.UUIDGenerator{},
		BatchSize:   cfg.PollBatch,
		PassTimeout: cfg.PollInterval,
		Logger:      logger,
	})
	return sessions, notifications
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.heartbeat {
		go a.hub.Heartbeat(ctx, 30*time.Second)
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run drives the lifecycle poller: an initial warm-up delay, then one
// RunOnce per tick. A failed cycle is logged and the next tick retries; the
// fired-at claims keep retried cycles idempotent.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"poll_warmup", w.pollWarmup.String(),
	)

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(w.pollWarmup):
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if err := w.sessions.Poller.RunOnce(ctx); err != nil {
			w.logger.Error("lifecycle poll cycle failed",
				"event", "bootstrap_poll_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
