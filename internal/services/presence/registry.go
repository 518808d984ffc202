package presence

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mverne/openrealm/internal/metrics"
	"github.com/mverne/openrealm/internal/storage"
)

// OnlineCounterName is the up/down counter adjusted on every transition.
const OnlineCounterName = "players_online"

// Registry is the process-wide set of currently-online player ids.
//
// The in-memory set exists to keep transitions idempotent and avoid redundant
// writes; the durable online records in storage remain the reconstructable
// truth if the process dies. The set starts empty on process start, matching
// a fresh world with no live sessions.
type Registry struct {
	storage storage.Storage
	metrics metrics.Recorder
	logger  *slog.Logger

	mu     sync.Mutex
	online map[uint32]struct{}
}

// New creates a new presence registry
func New(store storage.Storage, recorder metrics.Recorder, logger *slog.Logger) *Registry {
	return &Registry{
		storage: store,
		metrics: recorder,
		logger:  logger,
		online:  make(map[uint32]struct{}),
	}
}

// SetOnline marks a player online. The first call for an id counts and
// writes; repeated calls are no-ops, as is id 0 (the "no identity" sentinel).
func (r *Registry) SetOnline(ctx context.Context, id uint32) {
	if id == 0 {
		return
	}

	// Membership test and update stay under one lock so two overlapping
	// logins for the same id cannot both pass the test.
	r.mu.Lock()
	if _, ok := r.online[id]; ok {
		r.mu.Unlock()
		return
	}
	r.online[id] = struct{}{}
	r.mu.Unlock()

	r.metrics.Add(ctx, OnlineCounterName, 1)
	if err := r.storage.InsertOnlineRecord(ctx, id); err != nil {
		r.logger.Warn("failed to write online record",
			slog.Uint64("player_id", uint64(id)),
			slog.String("error", err.Error()),
		)
	}
}

// SetOffline removes the online mark. A no-op if the id is not marked or is 0.
func (r *Registry) SetOffline(ctx context.Context, id uint32) {
	if id == 0 {
		return
	}

	r.mu.Lock()
	if _, ok := r.online[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.online, id)
	r.mu.Unlock()

	r.metrics.Add(ctx, OnlineCounterName, -1)
	if err := r.storage.DeleteOnlineRecord(ctx, id); err != nil {
		r.logger.Warn("failed to delete online record",
			slog.Uint64("player_id", uint64(id)),
			slog.String("error", err.Error()),
		)
	}
}

// IsOnline reports whether the id is currently marked online.
func (r *Registry) IsOnline(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.online[id]
	return ok
}

// Online returns a snapshot of all online ids.
func (r *Registry) Online() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, 0, len(r.online))
	for id := range r.online {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of players currently marked online.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.online)
}
