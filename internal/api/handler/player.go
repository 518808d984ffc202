package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mverne/openrealm/internal/api/apierr"
	"github.com/mverne/openrealm/internal/api/request"
	"github.com/mverne/openrealm/internal/api/response"
	"github.com/mverne/openrealm/internal/services/player"
)

// PlayerHandler serves player lookup requests
type PlayerHandler struct {
	players *player.Service
	logger  *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *player.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		logger:  logger,
	}
}

// LookupByName handles GET /players/name/{name}
func (h *PlayerHandler) LookupByName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	id, err := h.players.IDByName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	formatted, err := h.players.FormatName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.PlayerLookup{
		ID:   id,
		Name: formatted,
	})
}

// LookupByID handles GET /players/{id}
func (h *PlayerHandler) LookupByID(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	name, err := h.players.NameByID(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.PlayerLookup{
		ID:   id,
		Name: name,
	})
}

// AdjustBankBalance handles POST /players/{id}/bank
func (h *PlayerHandler) AdjustBankBalance(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.AdjustBankBalance
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.players.AdjustBankBalance(r.Context(), id, req.Amount); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.BankBalance{PlayerID: id})
}
