package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mverne/openrealm/internal/api/apierr"
	"github.com/mverne/openrealm/internal/api/middleware"
	"github.com/mverne/openrealm/internal/api/request"
	"github.com/mverne/openrealm/internal/api/response"
	"github.com/mverne/openrealm/internal/services/auth"
)

// AuthHandler issues and revokes account sessions
type AuthHandler struct {
	auth   *auth.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

// CreateSession handles POST /sessions
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Account == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("account and password are required"))
		return
	}

	session, err := h.auth.CreateSession(r.Context(), req.Account, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, response.Session{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// RevokeSession handles DELETE /sessions
func (h *AuthHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetAccountSession(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	if err := h.auth.RevokeSession(r.Context(), session.Token); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteNoContent(w)
}
