package model

// VipEntry is an account's bookmark of another character for online-status
// notification. At most one entry per (account, target player) pair.
type VipEntry struct {
	PlayerID uint32 `json:"player_id"`
	// Name is denormalized from the referenced player at read time.
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        uint32 `json:"icon"`
	Notify      bool   `json:"notify"`
}
