package player

import (
	"context"
	"log/slog"

	"github.com/mverne/openrealm/internal/dependencies/clock"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// Service orchestrates assembling a player aggregate from storage and
// writing it back atomically. The load pipeline and save transaction are
// ordered step lists so each sub-entity can be tested (and fault-injected)
// in isolation.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	loadSteps []loadStep
	// minimalCount is how many load steps a minimal load runs before
	// returning early.
	minimalCount int
	saveSteps    []saveStep
}

// New creates a new player service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	s := &Service{
		storage: store,
		clock:   clk,
		logger:  logger,
	}
	s.loadSteps, s.minimalCount = s.buildLoadSteps()
	s.saveSteps = s.buildSaveSteps()
	return s
}

// LoadByID populates a fresh aggregate from the player's stored record.
// A minimal load stops after task hunting state; it is meant for existence
// and preview checks against offline players and must not be saved back.
func (s *Service) LoadByID(ctx context.Context, id uint32, minimal bool) (*model.Player, error) {
	record, err := s.storage.GetPlayerRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, record, minimal)
}

// LoadByName is LoadByID keyed by the unique character name.
func (s *Service) LoadByName(ctx context.Context, name string, minimal bool) (*model.Player, error) {
	record, err := s.storage.GetPlayerRecordByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, record, minimal)
}

func (s *Service) load(ctx context.Context, record *storage.PlayerRecord, minimal bool) (*model.Player, error) {
	if record == nil {
		s.logger.Warn("load rejected: result snapshot is missing")
		return nil, model.ErrInvalidLoadTarget
	}

	p := &model.Player{}
	for i, step := range s.loadSteps {
		if minimal && i >= s.minimalCount {
			return p, nil
		}
		if err := step.fn(ctx, p, record); err != nil {
			stepErr := &model.LoadStepError{Step: step.name, Err: err}
			s.logger.Warn("error while loading player",
				slog.Uint64("player_id", uint64(record.ID)),
				slog.String("step", step.name),
				slog.String("error", err.Error()),
			)
			// No partial aggregate escapes: the caller gets nothing.
			return nil, stepErr
		}
	}
	return p, nil
}

// Save persists the whole aggregate as one atomic unit. Either every
// sub-saver commits or storage keeps its pre-save state. The aggregate must
// come from a full load; saving a minimal load would truncate the sections
// a minimal load skips.
func (s *Service) Save(ctx context.Context, p *model.Player) error {
	if p == nil {
		s.logger.Warn("save rejected: aggregate is missing")
		return model.ErrInvalidSaveTarget
	}

	err := s.storage.SavePlayer(ctx, p.ID, func(tx storage.PlayerTx) error {
		for _, step := range s.saveSteps {
			if err := step.fn(p, tx); err != nil {
				return &model.SaveStepError{Step: step.name, Player: p.Name, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("error occurred saving player",
			slog.Uint64("player_id", uint64(p.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Boundary lookups

// NameByID resolves a player id to its canonical name.
func (s *Service) NameByID(ctx context.Context, id uint32) (string, error) {
	return s.storage.PlayerNameByID(ctx, id)
}

// IDByName resolves a character name to its id.
func (s *Service) IDByName(ctx context.Context, name string) (uint32, error) {
	return s.storage.PlayerIDByName(ctx, name)
}

// FormatName replaces a case-insensitive name with its stored spelling.
func (s *Service) FormatName(ctx context.Context, name string) (string, error) {
	id, err := s.storage.PlayerIDByName(ctx, name)
	if err != nil {
		return "", err
	}
	return s.storage.PlayerNameByID(ctx, id)
}

// AdjustBankBalance applies a delta to the player's stored bank balance.
func (s *Service) AdjustBankBalance(ctx context.Context, id uint32, delta int64) error {
	return s.storage.AdjustBankBalance(ctx, id, delta)
}

// HasAuctionBid reports whether the player holds an outstanding auction bid.
func (s *Service) HasAuctionBid(ctx context.Context, id uint32) (bool, error) {
	return s.storage.HasAuctionBid(ctx, id)
}
