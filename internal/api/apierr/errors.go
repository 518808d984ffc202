package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mverne/openrealm/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeCannotLogin    = "CANNOT_LOGIN"
	CodeDataLoadError  = "DATA_LOAD_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodePlayerNotFound = "PLAYER_NOT_FOUND"
	CodeAlreadyOnline  = "ALREADY_ONLINE"
	CodeNotLoggedIn    = "NOT_LOGGED_IN"
	CodeVipExists      = "VIP_EXISTS"
	CodeVipNotFound    = "VIP_NOT_FOUND"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Authentication failures collapse to one generic outcome so the
	// response does not reveal whether the account exists.
	switch {
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrAuthenticationFailed),
		errors.Is(err, model.ErrCharacterNotOwned):
		return &httpError{http.StatusUnauthorized, APIError{CodeCannotLogin, "Cannot log in"}}

	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	case errors.Is(err, model.ErrPlayerAlreadyOnline):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyOnline, "Player is already online"}}

	case errors.Is(err, model.ErrNoActiveSession):
		return &httpError{http.StatusNotFound, APIError{CodeNotLoggedIn, "Player is not logged in"}}

	case errors.Is(err, model.ErrVipEntryExists):
		return &httpError{http.StatusConflict, APIError{CodeVipExists, "VIP entry already exists"}}

	case errors.Is(err, model.ErrVipEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeVipNotFound, "VIP entry not found"}}
	}

	// A sub-loader failure means this login attempt cannot proceed.
	var loadErr *model.LoadStepError
	if errors.As(err, &loadErr) || errors.Is(err, model.ErrInvalidLoadTarget) {
		return &httpError{http.StatusBadGateway, APIError{CodeDataLoadError, "Data load error"}}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
