package model

import "time"

// Skill indexes into Player.Skills
type Skill int

const (
	SkillFist Skill = iota
	SkillClub
	SkillSword
	SkillAxe
	SkillDistance
	SkillShield
	SkillFishing
	SkillCount
)

// Inventory slots; slot 0 is unused so stored data can address slots 1..10
// the way the client does.
const (
	SlotHead = iota + 1
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotRight
	SlotLeft
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
	SlotCount
)

// StaminaMax is the stamina cap in minutes.
const StaminaMax = 2520

// Player is the full in-memory aggregate of one character. It is exclusively
// owned by the active game session while logged in; the persisted sections in
// storage are the durable source of truth when no session is active.
type Player struct {
	// Core identity
	ID        uint32
	AccountID uint32
	Name      string
	Sex       uint8
	Vocation  uint8
	TownID    uint32
	Deleted   bool

	Health    int32
	MaxHealth int32
	Mana      int32
	MaxMana   int32
	Soul      uint8
	Capacity  uint32
	Stamina   uint16

	BankBalance uint64
	LastLogin   time.Time
	LastLogout  time.Time

	// Experience
	Level      uint32
	Experience uint64
	MagicLevel uint8
	ManaSpent  uint64

	Blessings  []Blessing
	Conditions []Condition
	Outfit     Outfit
	Skull      SkullInfo
	Skills     [SkillCount]SkillValue
	Kills      []Kill
	Guild      *GuildMembership

	// Stash: item id -> stacked count
	Stash  map[uint16]uint32
	Charms CharmProgress
	Spells []string

	// Item trees. Inventory must exist before depot, reward and inbox
	// containers are attached.
	Inventory  [SlotCount]*Item
	StoreInbox *Item
	Depots     map[uint32]*Item
	Rewards    map[uint64]*Item
	Inbox      *Item

	// Generic key-value storage map
	Storage map[uint32]int32

	VipEntries []VipEntry

	Prey        []PreySlot
	TaskHunting []TaskHuntingSlot

	// Loaded only on a full (non-minimal) load
	ForgeHistory []ForgeHistoryEntry
	Bosstiary    BosstiaryProgress
	Wheel        WheelState
}

// Blessing is one blessing id with its remaining charges.
type Blessing struct {
	ID    uint8  `json:"id"`
	Count uint16 `json:"count"`
}

// Condition is a time-bound status effect. Ticks counts remaining duration
// in milliseconds; offline time elapses against it on load.
type Condition struct {
	Type  uint8 `json:"type"`
	Ticks int64 `json:"ticks"`
}

// Outfit is the character's default look.
type Outfit struct {
	LookType uint16 `json:"look_type"`
	Head     uint8  `json:"head"`
	Body     uint8  `json:"body"`
	Legs     uint8  `json:"legs"`
	Feet     uint8  `json:"feet"`
	Addons   uint8  `json:"addons"`
}

// SkullInfo is the character's PK skull and when it wears off.
type SkullInfo struct {
	Type  uint8     `json:"type"`
	Until time.Time `json:"until"`
}

// SkillValue is one trained skill: its level and accumulated tries.
type SkillValue struct {
	Level uint16 `json:"level"`
	Tries uint64 `json:"tries"`
}

// Kill is one entry of the character's unavenged-kill history.
type Kill struct {
	TargetID  uint32    `json:"target_id"`
	Time      time.Time `json:"time"`
	Unavenged bool      `json:"unavenged"`
}

// GuildMembership links the character to its guild, rank and guild nick.
type GuildMembership struct {
	GuildID uint32 `json:"guild_id"`
	RankID  uint32 `json:"rank_id"`
	Nick    string `json:"nick"`
}

// CharmProgress is the bestiary charm state: points and unlocked charm runes.
type CharmProgress struct {
	Points         uint32   `json:"points"`
	UnlockedCharms []uint16 `json:"unlocked_charms"`
	TrackedRaces   []uint16 `json:"tracked_races"`
}

// PreySlot is one prey hunting slot.
type PreySlot struct {
	Slot         uint8     `json:"slot"`
	State        uint8     `json:"state"`
	RaceID       uint16    `json:"race_id"`
	Option       uint8     `json:"option"`
	BonusType    uint8     `json:"bonus_type"`
	BonusValue   uint16    `json:"bonus_value"`
	TimeLeft     int64     `json:"time_left"`
	FreeRerollAt time.Time `json:"free_reroll_at"`
}

// TaskHuntingSlot is one task-hunting slot.
type TaskHuntingSlot struct {
	Slot         uint8     `json:"slot"`
	State        uint8     `json:"state"`
	RaceID       uint16    `json:"race_id"`
	Kills        uint16    `json:"kills"`
	Upgraded     bool      `json:"upgraded"`
	FreeRerollAt time.Time `json:"free_reroll_at"`
}

// ForgeHistoryEntry is one line of the character's forge action log.
type ForgeHistoryEntry struct {
	Action      uint8     `json:"action"`
	Description string    `json:"description"`
	Success     bool      `json:"success"`
	CreatedAt   time.Time `json:"created_at"`
}

// BosstiaryProgress tracks boss encounter progress and the slotted bosses.
type BosstiaryProgress struct {
	Points      uint32            `json:"points"`
	BossIDSlots [2]uint32         `json:"boss_id_slots"`
	Kills       map[uint32]uint32 `json:"kills"`
}

// WheelState is the wheel-of-destiny slot-point bookkeeping.
type WheelState struct {
	Points      uint16            `json:"points"`
	SlotPoints  map[string]uint16 `json:"slot_points"`
	ExtraPoints uint16            `json:"extra_points"`
}
