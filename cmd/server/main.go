package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mverne/openrealm/internal/api"
	"github.com/mverne/openrealm/internal/factory"
	"github.com/mverne/openrealm/internal/metrics"
	"github.com/mverne/openrealm/internal/services/auth"
	redisstorage "github.com/mverne/openrealm/internal/storage/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	authCfg := auth.DefaultConfig()
	if authType := os.Getenv("AUTH_TYPE"); authType != "" {
		authCfg.AuthType = authType
	}
	cfg.AuthConfig = authCfg

	if os.Getenv("METRICS_ENABLED") == "true" {
		cfg.Metrics = metrics.NewOTelRecorder()
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Storage:        app.Storage,
		AuthService:    app.AuthService,
		PlayerService:  app.PlayerService,
		VipService:     app.VipService,
		SessionManager: app.SessionManager,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Periodically persist every online player
	autosave := 15 * time.Minute
	if raw := os.Getenv("AUTOSAVE_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid AUTOSAVE_INTERVAL", slog.String("value", raw))
			os.Exit(1)
		}
		autosave = d
	}
	go app.SessionManager.Run(ctx, autosave)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		// Flush player state before the process exits
		if err := app.SessionManager.SaveAll(context.Background()); err != nil {
			logger.Error("final save failed", slog.String("error", err.Error()))
		}
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
