package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mverne/openrealm/internal/api/apierr"
	"github.com/mverne/openrealm/internal/api/request"
	"github.com/mverne/openrealm/internal/api/response"
	"github.com/mverne/openrealm/internal/services/session"
)

// SessionHandler serves login, logout and online-list requests
type SessionHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Account == "" || req.Character == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("account and character are required"))
		return
	}

	p, err := h.manager.Login(r.Context(), req.Account, req.Credential, req.Character, req.OldProtocol)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.Login{
		AccountID: p.AccountID,
		PlayerID:  p.ID,
		Name:      p.Name,
		Level:     p.Level,
		LastLogin: p.LastLogin.Format(time.RFC3339),
	})
}

// Logout handles POST /players/{id}/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.manager.Logout(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteNoContent(w)
}

// Online handles GET /online
func (h *SessionHandler) Online(w http.ResponseWriter, r *http.Request) {
	players := h.manager.Online()
	response.WriteJSON(w, http.StatusOK, response.Online{
		Count:   len(players),
		Players: players,
	})
}

func playerIDVar(r *http.Request) (uint32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("invalid player id")
	}
	return uint32(id), nil
}
