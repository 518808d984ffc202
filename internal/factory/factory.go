package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mverne/openrealm/internal/dependencies/clock"
	"github.com/mverne/openrealm/internal/metrics"
	"github.com/mverne/openrealm/internal/services/auth"
	"github.com/mverne/openrealm/internal/services/player"
	"github.com/mverne/openrealm/internal/services/presence"
	"github.com/mverne/openrealm/internal/services/session"
	"github.com/mverne/openrealm/internal/services/vip"
	"github.com/mverne/openrealm/internal/storage"
	"github.com/mverne/openrealm/internal/storage/memory"
	redisstorage "github.com/mverne/openrealm/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Metrics metrics.Recorder

	// Services
	AuthService    *auth.Service
	PlayerService  *player.Service
	VipService     *vip.Service
	Presence       *presence.Registry
	SessionManager *session.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Metrics receives presence gauge updates (optional)
	// If nil, a no-op recorder is used
	Metrics metrics.Recorder
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, recorder, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, recorder metrics.Recorder, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, authCfg, logger)
	playerService := player.New(store, clk, logger)
	vipService := vip.New(store, logger)
	registry := presence.New(store, recorder, logger)
	sessionManager := session.New(authService, playerService, registry, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Metrics:        recorder,
		AuthService:    authService,
		PlayerService:  playerService,
		VipService:     vipService,
		Presence:       registry,
		SessionManager: sessionManager,
	}
}
