package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mverne/openrealm/internal/dependencies/clock"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// Auth type constants selecting how credentials are verified
const (
	AuthTypePassword = "password"
	AuthTypeSession  = "session"
)

// Config holds configuration for the auth service
type Config struct {
	// AuthType is "password" (bcrypt against the stored hash) or "session"
	// (the credential is a previously issued session token).
	AuthType string
	// SessionDuration is how long issued sessions stay valid.
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		AuthType:        AuthTypePassword,
		SessionDuration: 24 * time.Hour,
	}
}

// Service is the authentication gate: it decides whether an account's
// credential is valid and whether the requested character belongs to it.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.AuthType == "" {
		cfg.AuthType = AuthTypePassword
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage: store,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// GameWorldAuthentication resolves a login request to the owning account id.
//
// The sequence is fixed: load the account, verify the credential under the
// configured auth mode, re-load the account, resolve its characters, and
// check the requested name maps to a live character. The re-load guards
// against account state changing between the initial load and verification
// (e.g. a concurrent credential rotation); the record can still go stale
// between any two reads, so callers must not cache it.
//
// oldProtocol marks a legacy client. Legacy clients cannot transmit session
// tokens, so they verify the password even when the server runs in session
// mode.
func (s *Service) GameWorldAuthentication(ctx context.Context, descriptor, credential, characterName string, oldProtocol bool) (uint32, error) {
	account, err := s.storage.GetAccount(ctx, descriptor)
	if err != nil {
		s.logger.Error("couldn't load account",
			slog.String("account", descriptor),
			slog.String("error", err.Error()),
		)
		return 0, model.ErrAccountNotFound
	}

	if s.cfg.AuthType == AuthTypeSession && !oldProtocol {
		if err := s.verifySession(ctx, account, credential); err != nil {
			s.logger.Info("session verification failed", slog.String("account", descriptor))
			return 0, model.ErrAuthenticationFailed
		}
	} else {
		if err := s.verifyPassword(account, credential); err != nil {
			s.logger.Info("password verification failed", slog.String("account", descriptor))
			return 0, model.ErrAuthenticationFailed
		}
	}

	// Re-load: the account may have changed while the credential was being
	// verified.
	account, err = s.storage.GetAccount(ctx, descriptor)
	if err != nil {
		s.logger.Error("failed to reload account",
			slog.String("account", descriptor),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("reload account: %w", err)
	}

	characters, err := s.storage.GetAccountCharacters(ctx, account.ID)
	if err != nil {
		s.logger.Error("failed to load account characters",
			slog.String("account", descriptor),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("load account characters: %w", err)
	}

	if !ownsCharacter(characters, characterName) {
		s.logger.Error("character not found or deleted",
			slog.String("account", descriptor),
			slog.String("character", characterName),
		)
		return 0, model.ErrCharacterNotOwned
	}

	return account.ID, nil
}

// CreateSession verifies the account password and issues a session token for
// later session-mode logins.
func (s *Service) CreateSession(ctx context.Context, descriptor, password string) (*model.AccountSession, error) {
	account, err := s.storage.GetAccount(ctx, descriptor)
	if err != nil {
		return nil, model.ErrAccountNotFound
	}
	if err := s.verifyPassword(account, password); err != nil {
		return nil, model.ErrAuthenticationFailed
	}

	session := &model.AccountSession{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: s.clock.Now().Add(s.cfg.SessionDuration),
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// RevokeSession invalidates a previously issued session token.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

// AccountType returns the account's privilege tier, defaulting to normal
// when the account cannot be loaded.
func (s *Service) AccountType(ctx context.Context, descriptor string) model.AccountType {
	account, err := s.storage.GetAccount(ctx, descriptor)
	if err != nil {
		return model.AccountTypeNormal
	}
	return account.Type
}

func (s *Service) verifyPassword(account *model.Account, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return model.ErrAuthenticationFailed
	}
	return nil
}

func (s *Service) verifySession(ctx context.Context, account *model.Account, token string) error {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return model.ErrAuthenticationFailed
	}
	if session.AccountID != account.ID || session.Expired(s.clock.Now()) {
		return model.ErrAuthenticationFailed
	}
	return nil
}

// ownsCharacter reports whether the character list holds a live entry with
// the given name and a non-zero id.
func ownsCharacter(characters []model.CharacterSummary, name string) bool {
	for _, summary := range characters {
		if summary.Name == name {
			return summary.ID != 0 && !summary.Deleted
		}
	}
	return false
}
