package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"txguard-lab/internal/api"
	"txguard-lab/internal/api/handlers"
	apimiddleware "txguard-lab/internal/api/middleware"
	"txguard-lab/internal/config"
	"txguard-lab/internal/domain/services"
	"txguard-lab/internal/grpc/health"
	"txguard-lab/internal/infrastructure/cache"
	"txguard-lab/internal/infrastructure/database"
	"txguard-lab/internal/infrastructure/database/repository"
	"txguard-lab/internal/infrastructure/memory"
	"txguard-lab/internal/streaming"
	"txguard-lab/pkg/logger"
)

// store is the persistence surface both backends provide
type store interface {
	services.PatternStore
	services.ScanStore
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// A missing .env is normal outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Str("storage", cfg.Storage.Backend).
		Msg("starting TxGuard Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := make(map[string]handlers.Pinger)
	grpcChecks := make(map[string]health.Pinger)

	// Initialize storage
	st, db, err := initStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db
		grpcChecks["postgres"] = db
	}

	// Redis is optional; without it caching and rate limiting are off
	var (
		jsonCache services.JSONCache
		limiter   apimiddleware.RateLimitChecker
	)
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			defer redisCache.Close()
			jsonCache = redisCache
			limiter = redisCache
			checks["redis"] = redisCache
			grpcChecks["redis"] = redisCache
		}
	}

	// Initialize streaming infrastructure
	var remote streaming.RemotePublisher
	if cfg.NATS.Enabled {
		natsPublisher, err := streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without event forwarding")
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
			remote = natsPublisher
			checks["nats"] = natsPublisher
			grpcChecks["nats"] = natsPublisher
		}
	}

	eventBus := streaming.NewEventBus(remote, log)
	defer eventBus.Close()
	log.Info().Bool("nats_enabled", remote != nil).Msg("event bus initialized")

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	eventPublisher := streaming.NewEventBusPublisher(eventBus, wsHub)

	// Initialize services
	catalogOpts := []services.CatalogOption{services.WithCatalogPublisher(eventPublisher)}
	scanOpts := []services.ScanOption{services.WithScanPublisher(eventPublisher)}
	if jsonCache != nil {
		catalogOpts = append(catalogOpts, services.WithCatalogCache(jsonCache, cfg.Analysis.CatalogCacheTTL))
		scanOpts = append(scanOpts, services.WithScanCache(jsonCache))
	}

	catalog := services.NewCatalogService(st, log, catalogOpts...)
	if cfg.Storage.SeedOnStart {
		seeded, err := catalog.Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed phishing patterns")
		}
		log.Info().Int("patterns", seeded).Msg("pattern catalog seeded")
	}

	analyzer := services.NewAnalyzer(catalog, log)
	scanService := services.NewScanService(analyzer, st, services.ScanServiceConfig{
		MaxInputLength: cfg.Analysis.MaxInputLength,
		HistoryLimit:   cfg.Analysis.HistoryLimit,
	}, log, scanOpts...)

	// Create handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Version:  cfg.App.Version,
		Catalog:  catalog,
		Scans:    scanService,
		WSHub:    wsHub,
		EventBus: eventBus,
		Checks:   checks,
		Logger:   log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, limiter, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start gRPC health server
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcServer := grpc.NewServer()
	checker := health.NewChecker(grpcChecks, 0, log)
	checker.Register(grpcServer)
	go checker.Run(ctx)

	go func() {
		log.Info().
			Str("addr", grpcListener.Addr().String()).
			Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initStorage opens the configured backend. db is nil for the in-memory store.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (store, *database.PostgresDB, error) {
	if cfg.Storage.Backend != config.StorageBackendPostgres {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info().Msg("repositories initialized with database")
	return repository.NewStore(db), db, nil
}
