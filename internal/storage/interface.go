package storage

import (
	"context"
	"encoding/json"

	"github.com/mverne/openrealm/internal/model"
)

// Section names for the per-player record. Every row-scoped sub-state of the
// aggregate is one JSON-encoded section of a single player record, so one
// record fetch is one consistent snapshot of all of them.
const (
	SectionCore        = "core"
	SectionExperience  = "experience"
	SectionBlessings   = "blessings"
	SectionConditions  = "conditions"
	SectionOutfit      = "outfit"
	SectionSkull       = "skull"
	SectionSkills      = "skills"
	SectionKills       = "kills"
	SectionGuild       = "guild"
	SectionStash       = "stash"
	SectionCharms      = "charms"
	SectionSpells      = "spells"
	SectionInventory   = "inventory"
	SectionDepots      = "depots"
	SectionRewards     = "rewards"
	SectionInbox       = "inbox"
	SectionStorage     = "storage"
	SectionPrey        = "prey"
	SectionTaskHunting = "task_hunting"
	SectionForge       = "forge_history"
	SectionBosstiary   = "bosstiary"
	SectionWheel       = "wheel"
	// SectionBankBalance is a bare integer field rather than a JSON object
	// so the backend can adjust it in place without rewriting the core
	// section (see Storage.AdjustBankBalance).
	SectionBankBalance = "bank_balance"
)

// Account-scoped sections, read independently of the player snapshot.
const (
	AccountSectionStoreInbox = "store_inbox"
)

// PlayerRecord is one consistent read of a player's persisted sections.
// All sections present were read at a single point in time.
type PlayerRecord struct {
	ID       uint32
	Sections map[string]json.RawMessage
}

// Section decodes the named section into v. A missing section is not an
// error: the destination keeps its zero value and ok is false. Malformed
// stored data is returned as the decode error.
func (r *PlayerRecord) Section(name string, v any) (bool, error) {
	raw, ok := r.Sections[name]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether the snapshot carries the named section.
func (r *PlayerRecord) Has(name string) bool {
	raw, ok := r.Sections[name]
	return ok && len(raw) > 0
}

// PlayerTx stages writes for one player save. Implementations buffer every
// write and apply all of them atomically only if the save callback returns
// nil; a callback error discards the whole batch.
type PlayerTx interface {
	// SetSection stages one section of the player record.
	SetSection(section string, v any) error
	// SetAccountSection stages an account-scoped section (e.g. store inbox).
	SetAccountSection(accountID uint32, section string, v any) error
	// SetNameIndex stages the unique name -> id mapping.
	SetNameIndex(name string, id uint32)
	// SetCharacterIndex stages the account's character-list entry.
	SetCharacterIndex(accountID uint32, summary model.CharacterSummary) error
}

// Storage defines the interface for data persistence
type Storage interface {
	// Account operations
	GetAccount(ctx context.Context, descriptor string) (*model.Account, error)
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccountCharacters(ctx context.Context, accountID uint32) ([]model.CharacterSummary, error)

	// Session operations
	GetSession(ctx context.Context, token string) (*model.AccountSession, error)
	SaveSession(ctx context.Context, session *model.AccountSession) error
	DeleteSession(ctx context.Context, token string) error

	// Player record operations
	GetPlayerRecord(ctx context.Context, id uint32) (*PlayerRecord, error)
	GetPlayerRecordByName(ctx context.Context, name string) (*PlayerRecord, error)
	GetAccountSection(ctx context.Context, accountID uint32, section string, v any) (bool, error)
	// SavePlayer runs fn against a transaction; all staged writes commit
	// as one unit when fn returns nil, and none of them otherwise.
	SavePlayer(ctx context.Context, id uint32, fn func(tx PlayerTx) error) error

	// Lookup operations
	PlayerIDByName(ctx context.Context, name string) (uint32, error)
	PlayerNameByID(ctx context.Context, id uint32) (string, error)
	AdjustBankBalance(ctx context.Context, id uint32, delta int64) error
	HasAuctionBid(ctx context.Context, id uint32) (bool, error)
	SetAuctionBid(ctx context.Context, id uint32, active bool) error

	// Online presence records (durable mirror of the presence registry)
	InsertOnlineRecord(ctx context.Context, id uint32) error
	DeleteOnlineRecord(ctx context.Context, id uint32) error
	OnlineRecords(ctx context.Context) ([]uint32, error)

	// VIP operations, keyed by (accountID, playerID)
	GetVipEntries(ctx context.Context, accountID uint32) ([]model.VipEntry, error)
	AddVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error
	EditVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error
	RemoveVipEntry(ctx context.Context, accountID uint32, playerID uint32) error
}
