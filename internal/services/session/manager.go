package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mverne/openrealm/internal/dependencies/clock"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/services/auth"
	"github.com/mverne/openrealm/internal/services/player"
	"github.com/mverne/openrealm/internal/services/presence"
)

// saveConcurrency bounds how many autosaves run at once so a sweep over a
// full world does not monopolize storage connections.
const saveConcurrency = 8

// Manager owns the live sessions: it drives the authenticate -> load ->
// online flow on login, the save -> offline flow on logout, and the periodic
// autosave sweep. Each player's aggregate is owned by exactly one session;
// the manager serializes load/save per player by construction.
type Manager struct {
	auth     *auth.Service
	players  *player.Service
	presence *presence.Registry
	clock    clock.Clock
	logger   *slog.Logger

	mu     sync.Mutex
	active map[uint32]*model.Player
}

// New creates a new session manager
func New(authService *auth.Service, playerService *player.Service, registry *presence.Registry, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		auth:     authService,
		players:  playerService,
		presence: registry,
		clock:    clk,
		logger:   logger,
		active:   make(map[uint32]*model.Player),
	}
}

// Login authenticates the account, assembles the character's full aggregate
// and marks it online. On any failure nothing stays registered.
func (m *Manager) Login(ctx context.Context, descriptor, credential, characterName string, oldProtocol bool) (*model.Player, error) {
	accountID, err := m.auth.GameWorldAuthentication(ctx, descriptor, credential, characterName, oldProtocol)
	if err != nil {
		return nil, err
	}

	p, err := m.players.LoadByName(ctx, characterName, false)
	if err != nil {
		return nil, err
	}
	if p.AccountID != accountID {
		// The gate said the account owns this name; a mismatch here means
		// the record moved between reads. Treat it as not owned.
		return nil, model.ErrCharacterNotOwned
	}

	m.mu.Lock()
	if _, ok := m.active[p.ID]; ok {
		m.mu.Unlock()
		return nil, model.ErrPlayerAlreadyOnline
	}
	m.active[p.ID] = p
	m.mu.Unlock()

	p.LastLogin = m.clock.Now()
	m.presence.SetOnline(ctx, p.ID)

	m.logger.Info("player logged in",
		slog.Uint64("player_id", uint64(p.ID)),
		slog.String("name", p.Name),
	)
	return p, nil
}

// Logout saves the aggregate and marks the player offline. The presence
// transition happens regardless of save success; a failed save is reported
// so the next save opportunity retries, but the session still ends.
func (m *Manager) Logout(ctx context.Context, id uint32) error {
	m.mu.Lock()
	p, ok := m.active[id]
	if ok {
		delete(m.active, id)
	}
	m.mu.Unlock()

	if !ok {
		return model.ErrNoActiveSession
	}

	p.LastLogout = m.clock.Now()
	saveErr := m.players.Save(ctx, p)

	m.presence.SetOffline(ctx, id)
	m.logger.Info("player logged out",
		slog.Uint64("player_id", uint64(id)),
		slog.String("name", p.Name),
	)
	return saveErr
}

// Player returns the live aggregate for an id, if a session owns one.
func (m *Manager) Player(id uint32) (*model.Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.active[id]
	return p, ok
}

// Online returns the ids of all active sessions.
func (m *Manager) Online() []uint32 {
	return m.presence.Online()
}

// SaveAll persists every active session's aggregate. Failures are collected
// but do not stop the sweep; each player retries at the next opportunity.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.mu.Lock()
	snapshot := make([]*model.Player, 0, len(m.active))
	for _, p := range m.active {
		snapshot = append(snapshot, p)
	}
	m.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(saveConcurrency)

	var mu sync.Mutex
	var errs []error
	for _, p := range snapshot {
		p := p
		g.Go(func() error {
			if err := m.players.Save(ctx, p); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Run performs the autosave sweep at the given interval until ctx ends.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.SaveAll(ctx); err != nil {
				m.logger.Error("autosave sweep finished with errors",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
