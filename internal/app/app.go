package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techradar-api/internal/config"
	"techradar-api/internal/database"
	"techradar-api/internal/event"
	"techradar-api/internal/handler"
	"techradar-api/internal/metrics"
	"techradar-api/internal/middleware"
	"techradar-api/internal/model"
	"techradar-api/internal/repository"
	"techradar-api/internal/router"
	"techradar-api/internal/service"
	"techradar-api/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	logger       *slog.Logger
	cleanupFuncs []func()
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()

	logger.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
		ConnectTimeout:    cfg.DBConnectTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	radarRepo := repository.NewRadarRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	logger.Info("database ready")

	bus := event.NewBus(logger)

	authService := service.NewAuthService(userRepo, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		Lifetime:   cfg.JWTLifetime,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		Production: cfg.IsProduction(),
	}, logger)
	likeService := service.NewLikeService(likeRepo, bus, logger)
	radarService := service.NewRadarService(radarRepo, bus, cfg.AppURL, logger)
	commentService := service.NewCommentService(commentRepo, radarRepo, bus, logger)
	referenceService := service.NewReferenceService(referenceRepo, radarRepo, bus)
	userService := service.NewUserService(userRepo, bus, logger)
	auditService := service.NewAuditService(auditRepo, bus, logger)

	if err := userService.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	auditReady := make(chan struct{})
	go auditService.Run(workersCtx, auditReady)
	<-auditReady

	hub := websocket.NewHub(bus, logger)
	go hub.Run(workersCtx, nil)

	appMetrics := metrics.New()
	go appMetrics.Run(workersCtx, bus, nil)

	authMiddleware := middleware.NewAuthMiddleware(authService, logger)
	appRouter := router.New(cfg, logger, authMiddleware, appMetrics, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Like:       handler.NewLikeHandler(likeService),
		Technology: handler.NewRadarHandler(model.KindTechnology, radarService, likeService),
		Trend:      handler.NewRadarHandler(model.KindTrend, radarService, likeService),
		Comment:    handler.NewCommentHandler(commentService),
		Reference:  handler.NewReferenceHandler(referenceService),
		User:       handler.NewUserHandler(userService),
		Audit:      handler.NewAuditHandler(auditService),
		Events:     websocket.NewHandler(hub, cfg.CORSOrigins, logger),
		Metrics:    appMetrics.Handler(),
		HealthCheckFunc: func(r *http.Request) error {
			return db.Health(r.Context())
		},
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		logger: logger,
		cleanupFuncs: []func(){
			stopWorkers,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		a.logger.Info("shutdown signal received", "signal", sig.String())
	case runErr = <-serveErr:
		a.logger.Error("server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain in-flight requests before the pool goes away.
	if err := a.server.Shutdown(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	a.logger.Info("server stopped")
	return runErr
}
