package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mverne/openrealm/internal/api/handler"
	"github.com/mverne/openrealm/internal/api/middleware"
	"github.com/mverne/openrealm/internal/services/auth"
	"github.com/mverne/openrealm/internal/services/player"
	"github.com/mverne/openrealm/internal/services/session"
	"github.com/mverne/openrealm/internal/services/vip"
	"github.com/mverne/openrealm/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Storage        storage.Storage
	AuthService    *auth.Service
	PlayerService  *player.Service
	VipService     *vip.Service
	SessionManager *session.Manager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.SessionManager, cfg.Logger)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.Logger)
	vipHandler := handler.NewVipHandler(cfg.VipService, cfg.PlayerService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Storage)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Login carries its own credentials, so no session is required
	api.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/sessions", authHandler.CreateSession).Methods(http.MethodPost)

	// Session revocation requires the session being revoked
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", authHandler.RevokeSession).Methods(http.MethodDelete)

	// Player routes
	api.HandleFunc("/online", sessionHandler.Online).Methods(http.MethodGet)
	api.HandleFunc("/players/name/{name}", playerHandler.LookupByName).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.LookupByID).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}/logout", sessionHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/players/{id:[0-9]+}/bank", playerHandler.AdjustBankBalance).Methods(http.MethodPost)

	// VIP routes (all require auth)
	vips := api.PathPrefix("/vip").Subrouter()
	vips.Use(authMiddleware)
	vips.HandleFunc("", vipHandler.List).Methods(http.MethodGet)
	vips.HandleFunc("", vipHandler.Add).Methods(http.MethodPost)
	vips.HandleFunc("/{id:[0-9]+}", vipHandler.Edit).Methods(http.MethodPut)
	vips.HandleFunc("/{id:[0-9]+}", vipHandler.Remove).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	return r
}
