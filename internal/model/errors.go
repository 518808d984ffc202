package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrSessionNotFound      = errors.New("session not found or expired")

	// Character errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrCharacterNotOwned   = errors.New("character not owned by account or deleted")
	ErrInvalidLoadTarget   = errors.New("load target or result snapshot is missing")
	ErrInvalidSaveTarget   = errors.New("save target is missing")
	ErrPlayerAlreadyOnline = errors.New("player is already online")

	// VIP errors
	ErrVipEntryExists   = errors.New("vip entry already exists for this player")
	ErrVipEntryNotFound = errors.New("vip entry not found")

	// Session-layer errors
	ErrNoActiveSession = errors.New("no active session for player")
)

// LoadStepError reports a sub-loader that could not interpret stored data.
// It aborts the whole load pipeline; the caller must discard the aggregate.
type LoadStepError struct {
	Step string
	Err  error
}

func (e *LoadStepError) Error() string {
	return fmt.Sprintf("load step %q: %v", e.Step, e.Err)
}

func (e *LoadStepError) Unwrap() error {
	return e.Err
}

// SaveStepError reports a sub-saver failure inside an open save transaction,
// tagged with the failing step and the player's display name. The transaction
// coordinator rolls back every prior step when it sees one.
type SaveStepError struct {
	Step   string
	Player string
	Err    error
}

func (e *SaveStepError) Error() string {
	return fmt.Sprintf("save step %q for player %q: %v", e.Step, e.Player, e.Err)
}

func (e *SaveStepError) Unwrap() error {
	return e.Err
}
