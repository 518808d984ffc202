package vip

import (
	"context"
	"log/slog"

	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// Service manages an account's VIP list: bookmarks of other characters,
// unique per (account, target player) pair.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new VIP service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
	}
}

// List returns the account's VIP entries with each display name refreshed
// from the referenced player, so renames show up without touching the entry.
func (s *Service) List(ctx context.Context, accountID uint32) ([]model.VipEntry, error) {
	entries, err := s.storage.GetVipEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		name, err := s.storage.PlayerNameByID(ctx, entries[i].PlayerID)
		if err != nil {
			// Keep the stale stored name rather than dropping the entry.
			continue
		}
		entries[i].Name = name
	}
	return entries, nil
}

// Add bookmarks a player. The target must exist; a second entry for the
// same pair conflicts instead of producing two rows.
func (s *Service) Add(ctx context.Context, accountID, playerID uint32, description string, icon uint32, notify bool) (model.VipEntry, error) {
	name, err := s.storage.PlayerNameByID(ctx, playerID)
	if err != nil {
		return model.VipEntry{}, err
	}

	entry := model.VipEntry{
		PlayerID:    playerID,
		Name:        name,
		Description: description,
		Icon:        icon,
		Notify:      notify,
	}
	if err := s.storage.AddVipEntry(ctx, accountID, entry); err != nil {
		s.logger.Error("failed to add vip entry",
			slog.Uint64("account_id", uint64(accountID)),
			slog.Uint64("player_id", uint64(playerID)),
			slog.String("error", err.Error()),
		)
		return model.VipEntry{}, err
	}
	return entry, nil
}

// Edit updates the description, icon and notify flag of an existing entry.
func (s *Service) Edit(ctx context.Context, accountID, playerID uint32, description string, icon uint32, notify bool) error {
	name, err := s.storage.PlayerNameByID(ctx, playerID)
	if err != nil {
		name = ""
	}

	entry := model.VipEntry{
		PlayerID:    playerID,
		Name:        name,
		Description: description,
		Icon:        icon,
		Notify:      notify,
	}
	if err := s.storage.EditVipEntry(ctx, accountID, entry); err != nil {
		s.logger.Error("failed to edit vip entry",
			slog.Uint64("account_id", uint64(accountID)),
			slog.Uint64("player_id", uint64(playerID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Remove deletes the bookmark; removing an absent entry is a no-op.
func (s *Service) Remove(ctx context.Context, accountID, playerID uint32) error {
	return s.storage.RemoveVipEntry(ctx, accountID, playerID)
}
