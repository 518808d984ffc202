package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mverne/openrealm/internal/factory"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
	ctx    context.Context
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.ctx = context.Background()

	// The in-memory session store expires against the wall clock
	s.app.MockClock.Set(time.Now())

	router := NewRouter(RouterConfig{
		Logger:         testutil.NopLogger(),
		Storage:        s.app.Storage,
		AuthService:    s.app.AuthService,
		PlayerService:  s.app.PlayerService,
		VipService:     s.app.VipService,
		SessionManager: s.app.SessionManager,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) seedAccount(descriptor, password string, id uint32) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	err = s.app.Storage.SaveAccount(s.ctx, &model.Account{
		ID:           id,
		Descriptor:   descriptor,
		PasswordHash: string(hash),
	})
	s.Require().NoError(err)
}

func (s *APISuite) seedCharacter(accountID, playerID uint32, name string) {
	p := &model.Player{
		ID:        playerID,
		AccountID: accountID,
		Name:      name,
		Health:    150,
		MaxHealth: 150,
		Level:     8,
	}
	s.Require().NoError(s.app.PlayerService.Save(s.ctx, p))
}

func (s *APISuite) request(method, path, token string, body any) (*http.Response, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (s *APISuite) errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func (s *APISuite) TestHealth() {
	resp, body := s.request(http.MethodGet, "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", body["status"])
}

func (s *APISuite) TestLogin() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	resp, body := s.request(http.MethodPost, "/api/v1/login", "", map[string]any{
		"account":    "alice",
		"credential": "hunter2",
		"character":  "Aldora",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(7), body["player_id"])
	s.Equal("Aldora", body["name"])
}

func (s *APISuite) TestLoginWrongPassword() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	resp, body := s.request(http.MethodPost, "/api/v1/login", "", map[string]any{
		"account":    "alice",
		"credential": "wrong",
		"character":  "Aldora",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("CANNOT_LOGIN", s.errorCode(body))
}

func (s *APISuite) TestLoginUnknownAccountSameError() {
	// Absent accounts and wrong passwords are indistinguishable on the wire
	resp, body := s.request(http.MethodPost, "/api/v1/login", "", map[string]any{
		"account":    "nobody",
		"credential": "hunter2",
		"character":  "Aldora",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("CANNOT_LOGIN", s.errorCode(body))
}

func (s *APISuite) TestLoginTwiceConflicts() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	req := map[string]any{
		"account":    "alice",
		"credential": "hunter2",
		"character":  "Aldora",
	}
	resp, _ := s.request(http.MethodPost, "/api/v1/login", "", req)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.request(http.MethodPost, "/api/v1/login", "", req)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("ALREADY_ONLINE", s.errorCode(body))
}

func (s *APISuite) TestLogoutAndOnline() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	resp, _ := s.request(http.MethodPost, "/api/v1/login", "", map[string]any{
		"account":    "alice",
		"credential": "hunter2",
		"character":  "Aldora",
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.request(http.MethodGet, "/api/v1/online", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), body["count"])

	resp, _ = s.request(http.MethodPost, "/api/v1/players/7/logout", "", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, body = s.request(http.MethodGet, "/api/v1/online", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(0), body["count"])
}

func (s *APISuite) TestLogoutWithoutSession() {
	resp, body := s.request(http.MethodPost, "/api/v1/players/7/logout", "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("NOT_LOGGED_IN", s.errorCode(body))
}

func (s *APISuite) TestPlayerLookups() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	resp, body := s.request(http.MethodGet, "/api/v1/players/name/aldora", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(7), body["id"])
	s.Equal("Aldora", body["name"])

	resp, body = s.request(http.MethodGet, "/api/v1/players/7", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Aldora", body["name"])

	resp, body = s.request(http.MethodGet, "/api/v1/players/name/nobody", "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("PLAYER_NOT_FOUND", s.errorCode(body))
}

func (s *APISuite) createSession(accountID uint32) string {
	token := fmt.Sprintf("test-token-%d", accountID)
	err := s.app.Storage.SaveSession(s.ctx, &model.AccountSession{
		Token:     token,
		AccountID: accountID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	s.Require().NoError(err)
	return token
}

func (s *APISuite) TestVipRequiresAuth() {
	resp, body := s.request(http.MethodGet, "/api/v1/vip", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("UNAUTHORIZED", s.errorCode(body))
}

func (s *APISuite) TestVipLifecycle() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")
	token := s.createSession(1)

	resp, body := s.request(http.MethodPost, "/api/v1/vip", token, map[string]string{"name": "Aldora"})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(float64(7), body["player_id"])

	resp, body = s.request(http.MethodPost, "/api/v1/vip", token, map[string]string{"name": "Aldora"})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("VIP_EXISTS", s.errorCode(body))

	resp, _ = s.request(http.MethodPut, "/api/v1/vip/7", token, map[string]any{
		"description": "friend",
		"icon":        1,
		"notify":      true,
	})
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, body = s.request(http.MethodGet, "/api/v1/vip", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	entries, _ := body["entries"].([]any)
	s.Require().Len(entries, 1)
	entry, _ := entries[0].(map[string]any)
	s.Equal("friend", entry["description"])

	resp, _ = s.request(http.MethodDelete, "/api/v1/vip/7", token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, body = s.request(http.MethodGet, "/api/v1/vip", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	entries, _ = body["entries"].([]any)
	s.Empty(entries)
}

func (s *APISuite) TestVipEditMissing() {
	token := s.createSession(1)

	resp, body := s.request(http.MethodPut, "/api/v1/vip/7", token, map[string]any{
		"description": "x",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("VIP_NOT_FOUND", s.errorCode(body))
}

func (s *APISuite) TestBankAdjust() {
	s.seedAccount("alice", "hunter2", 1)
	s.seedCharacter(1, 7, "Aldora")

	resp, _ := s.request(http.MethodPost, "/api/v1/players/7/bank", "", map[string]int64{"amount": 5000})
	s.Equal(http.StatusOK, resp.StatusCode)

	loaded, err := s.app.PlayerService.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(uint64(5000), loaded.BankBalance)
}

func (s *APISuite) TestSessionCreateAndRevoke() {
	s.seedAccount("alice", "hunter2", 1)

	resp, body := s.request(http.MethodPost, "/api/v1/sessions", "", map[string]string{
		"account":  "alice",
		"password": "hunter2",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	s.NotEmpty(token)

	resp, _ = s.request(http.MethodDelete, "/api/v1/sessions", token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, body = s.request(http.MethodGet, "/api/v1/vip", token, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("UNAUTHORIZED", s.errorCode(body))
}
