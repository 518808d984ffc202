package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mverne/openrealm/internal/api/apierr"
	"github.com/mverne/openrealm/internal/api/middleware"
	"github.com/mverne/openrealm/internal/api/request"
	"github.com/mverne/openrealm/internal/api/response"
	"github.com/mverne/openrealm/internal/services/player"
	"github.com/mverne/openrealm/internal/services/vip"
)

// VipHandler serves VIP list requests for the authenticated account
type VipHandler struct {
	vips    *vip.Service
	players *player.Service
	logger  *slog.Logger
}

// NewVipHandler creates a new VIP handler
func NewVipHandler(vips *vip.Service, players *player.Service, logger *slog.Logger) *VipHandler {
	return &VipHandler{
		vips:    vips,
		players: players,
		logger:  logger,
	}
}

// List handles GET /vip
func (h *VipHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetAccountSession(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	entries, err := h.vips.List(r.Context(), session.AccountID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	out := make([]response.VipEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, response.VipEntryFromModel(e))
	}
	response.WriteJSON(w, http.StatusOK, response.VipList{Entries: out})
}

// Add handles POST /vip
func (h *VipHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetAccountSession(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	var req request.AddVip
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	id, err := h.players.IDByName(r.Context(), req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	entry, err := h.vips.Add(r.Context(), session.AccountID, id, "", 0, false)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, response.VipEntryFromModel(entry))
}

// Edit handles PUT /vip/{id}
func (h *VipHandler) Edit(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetAccountSession(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	id, err := playerIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.EditVip
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.vips.Edit(r.Context(), session.AccountID, id, req.Description, req.Icon, req.Notify); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteNoContent(w)
}

// Remove handles DELETE /vip/{id}
func (h *VipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetAccountSession(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	id, err := playerIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.vips.Remove(r.Context(), session.AccountID, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteNoContent(w)
}
