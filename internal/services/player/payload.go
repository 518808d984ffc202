package player

import (
	"time"

	"github.com/mverne/openrealm/internal/model"
)

// Serialized forms of the record sections. Only core and experience need a
// dedicated shape; every other section stores its model type directly.

type corePayload struct {
	ID        uint32 `json:"id"`
	AccountID uint32 `json:"account_id"`
	Name      string `json:"name"`
	Sex       uint8  `json:"sex"`
	Vocation  uint8  `json:"vocation"`
	TownID    uint32 `json:"town_id"`
	Deleted   bool   `json:"deleted"`

	Health    int32  `json:"health"`
	MaxHealth int32  `json:"max_health"`
	Mana      int32  `json:"mana"`
	MaxMana   int32  `json:"max_mana"`
	Soul      uint8  `json:"soul"`
	Capacity  uint32 `json:"capacity"`
	Stamina   uint16 `json:"stamina"`

	LastLogin  time.Time `json:"last_login"`
	LastLogout time.Time `json:"last_logout"`
}

type experiencePayload struct {
	Level      uint32 `json:"level"`
	Experience uint64 `json:"experience"`
	MagicLevel uint8  `json:"magic_level"`
	ManaSpent  uint64 `json:"mana_spent"`
}

func coreFromPlayer(p *model.Player) corePayload {
	return corePayload{
		ID:         p.ID,
		AccountID:  p.AccountID,
		Name:       p.Name,
		Sex:        p.Sex,
		Vocation:   p.Vocation,
		TownID:     p.TownID,
		Deleted:    p.Deleted,
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		Mana:       p.Mana,
		MaxMana:    p.MaxMana,
		Soul:       p.Soul,
		Capacity:   p.Capacity,
		Stamina:    p.Stamina,
		LastLogin:  p.LastLogin,
		LastLogout: p.LastLogout,
	}
}

func (c corePayload) applyTo(p *model.Player) {
	p.ID = c.ID
	p.AccountID = c.AccountID
	p.Name = c.Name
	p.Sex = c.Sex
	p.Vocation = c.Vocation
	p.TownID = c.TownID
	p.Deleted = c.Deleted
	p.Health = c.Health
	p.MaxHealth = c.MaxHealth
	p.Mana = c.Mana
	p.MaxMana = c.MaxMana
	p.Soul = c.Soul
	p.Capacity = c.Capacity
	p.Stamina = c.Stamina
	p.LastLogin = c.LastLogin
	p.LastLogout = c.LastLogout
}
