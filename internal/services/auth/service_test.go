package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mverne/openrealm/internal/dependencies/mocks"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
	"github.com/mverne/openrealm/internal/storage/memory"
	"github.com/mverne/openrealm/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	// The storage layer expires sessions against the wall clock, so the
	// mock clock starts at real time rather than a fixed date.
	s.clock = mocks.NewMockClock(time.Now())
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) seedAccount(descriptor, password string, id uint32) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)

	err = s.storage.SaveAccount(s.ctx, &model.Account{
		ID:           id,
		Descriptor:   descriptor,
		PasswordHash: string(hash),
		Type:         model.AccountTypeNormal,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) seedCharacter(accountID, playerID uint32, name string, deleted bool) {
	err := s.storage.SavePlayer(s.ctx, playerID, func(tx storage.PlayerTx) error {
		return tx.SetCharacterIndex(accountID, model.CharacterSummary{
			ID:      playerID,
			Name:    name,
			Deleted: deleted,
		})
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestAuthenticationSucceeds() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	accountID, err := s.service.GameWorldAuthentication(s.ctx, "alice", "hunter2", "Aldora", false)
	s.Require().NoError(err)
	s.Equal(uint32(1), accountID)
}

func (s *ServiceSuite) TestAuthenticationWrongPassword() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	_, err := s.service.GameWorldAuthentication(s.ctx, "alice", "wrong", "Aldora", false)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestAuthenticationUnknownAccount() {
	_, err := s.service.GameWorldAuthentication(s.ctx, "nobody", "hunter2", "Aldora", false)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ServiceSuite) TestAuthenticationCharacterNotOwned() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	_, err := s.service.GameWorldAuthentication(s.ctx, "alice", "hunter2", "Stranger", false)
	s.ErrorIs(err, model.ErrCharacterNotOwned)
}

func (s *ServiceSuite) TestAuthenticationDeletedCharacter() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", true)

	_, err := s.service.GameWorldAuthentication(s.ctx, "alice", "hunter2", "Aldora", false)
	s.ErrorIs(err, model.ErrCharacterNotOwned)
}

func (s *ServiceSuite) TestAuthenticationCharacterNameIsCaseSensitive() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	_, err := s.service.GameWorldAuthentication(s.ctx, "alice", "hunter2", "aldora", false)
	s.ErrorIs(err, model.ErrCharacterNotOwned)
}

func (s *ServiceSuite) TestSessionModeAcceptsToken() {
	cfg := DefaultConfig()
	cfg.AuthType = AuthTypeSession
	s.service = New(s.storage, s.clock, cfg, testutil.NopLogger())

	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	session, err := s.service.CreateSession(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	accountID, err := s.service.GameWorldAuthentication(s.ctx, "alice", session.Token, "Aldora", false)
	s.Require().NoError(err)
	s.Equal(uint32(1), accountID)
}

func (s *ServiceSuite) TestSessionModeRejectsUnknownToken() {
	cfg := DefaultConfig()
	cfg.AuthType = AuthTypeSession
	s.service = New(s.storage, s.clock, cfg, testutil.NopLogger())

	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	_, err := s.service.GameWorldAuthentication(s.ctx, "alice", "not-a-token", "Aldora", false)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestSessionModeRejectsOtherAccountsToken() {
	cfg := DefaultConfig()
	cfg.AuthType = AuthTypeSession
	s.service = New(s.storage, s.clock, cfg, testutil.NopLogger())

	s.seedAccount("alice", "hunter2", 1)
	s.seedAccount("bob", "secret", 2)
	s.seedCharacter(1, 7, "Aldora", false)

	session, err := s.service.CreateSession(s.ctx, "bob", "secret")
	s.Require().NoError(err)

	_, err = s.service.GameWorldAuthentication(s.ctx, "alice", session.Token, "Aldora", false)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestSessionModeLegacyClientUsesPassword() {
	cfg := DefaultConfig()
	cfg.AuthType = AuthTypeSession
	s.service = New(s.storage, s.clock, cfg, testutil.NopLogger())

	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	// A legacy client sends the raw password even in session mode
	accountID, err := s.service.GameWorldAuthentication(s.ctx, "alice", "hunter2", "Aldora", true)
	s.Require().NoError(err)
	s.Equal(uint32(1), accountID)
}

func (s *ServiceSuite) TestCreateSessionWrongPassword() {
	s.seedAccount("alice", "hunter2", 1)

	_, err := s.service.CreateSession(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestCreateSessionExpiry() {
	s.seedAccount("alice", "hunter2", 1)

	session, err := s.service.CreateSession(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestRevokeSession() {
	cfg := DefaultConfig()
	cfg.AuthType = AuthTypeSession
	s.service = New(s.storage, s.clock, cfg, testutil.NopLogger())

	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora", false)

	session, err := s.service.CreateSession(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	s.Require().NoError(s.service.RevokeSession(s.ctx, session.Token))

	_, err = s.service.GameWorldAuthentication(s.ctx, "alice", session.Token, "Aldora", false)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestAccountType() {
	hash, err := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	s.Require().NoError(err)
	err = s.storage.SaveAccount(s.ctx, &model.Account{
		ID:           1,
		Descriptor:   "gm",
		PasswordHash: string(hash),
		Type:         model.AccountTypeGameMaster,
	})
	s.Require().NoError(err)

	s.Equal(model.AccountTypeGameMaster, s.service.AccountType(s.ctx, "gm"))
	s.Equal(model.AccountTypeNormal, s.service.AccountType(s.ctx, "missing"))
}
