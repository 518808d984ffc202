package response

import (
	"time"

	"github.com/mverne/openrealm/internal/model"
)

// Login reports the result of a successful game world login
type Login struct {
	AccountID uint32 `json:"account_id"`
	PlayerID  uint32 `json:"player_id"`
	Name      string `json:"name"`
	Level     uint32 `json:"level"`
	LastLogin string `json:"last_login"`
}

// Session carries a newly issued session token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Online lists the players currently marked online
type Online struct {
	Count   int      `json:"count"`
	Players []uint32 `json:"players"`
}

// PlayerLookup resolves a player name or id to its counterpart
type PlayerLookup struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// VipEntry is one entry on an account's VIP list
type VipEntry struct {
	PlayerID    uint32 `json:"player_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        uint32 `json:"icon"`
	Notify      bool   `json:"notify"`
}

// VipList is the full VIP list for an account
type VipList struct {
	Entries []VipEntry `json:"entries"`
}

// BankBalance reports a player's bank balance after an adjustment
type BankBalance struct {
	PlayerID uint32 `json:"player_id"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// VipEntryFromModel converts a model VIP entry for the wire
func VipEntryFromModel(e model.VipEntry) VipEntry {
	return VipEntry{
		PlayerID:    e.PlayerID,
		Name:        e.Name,
		Description: e.Description,
		Icon:        e.Icon,
		Notify:      e.Notify,
	}
}
