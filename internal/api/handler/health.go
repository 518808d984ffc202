package handler

import (
	"net/http"

	"github.com/mverne/openrealm/internal/api/response"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Health{Status: "ok"})
}
