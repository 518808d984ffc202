package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case SessionResult:
		o.printSessionResult(v)
	case OnlineResult:
		o.printOnlineResult(v)
	case LookupResult:
		o.printLookupResult(v)
	case VipListResult:
		o.printVipListResult(v)
	case VipEntry:
		o.printVipEntry(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// LoginResult response type (matches API)
type LoginResult struct {
	AccountID uint32 `json:"account_id"`
	PlayerID  uint32 `json:"player_id"`
	Name      string `json:"name"`
	Level     uint32 `json:"level"`
	LastLogin string `json:"last_login"`
}

// SessionResult response type
type SessionResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OnlineResult response type
type OnlineResult struct {
	Count   int      `json:"count"`
	Players []uint32 `json:"players"`
}

// LookupResult response type
type LookupResult struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// VipEntry response type
type VipEntry struct {
	PlayerID    uint32 `json:"player_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        uint32 `json:"icon"`
	Notify      bool   `json:"notify"`
}

// VipListResult response type
type VipListResult struct {
	Entries []VipEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printLoginResult(r LoginResult) {
	fmt.Printf("Logged in as %s (player %d, account %d)\n", r.Name, r.PlayerID, r.AccountID)
	fmt.Printf("  Level: %d\n", r.Level)
	fmt.Printf("  Last login: %s\n", r.LastLogin)
}

func (o *Output) printSessionResult(r SessionResult) {
	fmt.Printf("Session created, expires %s\n", r.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("  Token: %s\n", r.Token)
}

func (o *Output) printOnlineResult(r OnlineResult) {
	fmt.Printf("Online players: %d\n", r.Count)
	for _, id := range r.Players {
		fmt.Printf("  %d\n", id)
	}
}

func (o *Output) printLookupResult(r LookupResult) {
	fmt.Printf("%d\t%s\n", r.ID, r.Name)
}

func (o *Output) printVipListResult(r VipListResult) {
	if len(r.Entries) == 0 {
		fmt.Println("VIP list is empty")
		return
	}
	for _, e := range r.Entries {
		o.printVipEntry(e)
	}
}

func (o *Output) printVipEntry(e VipEntry) {
	notify := ""
	if e.Notify {
		notify = " [notify]"
	}
	fmt.Printf("%d\t%s%s\n", e.PlayerID, e.Name, notify)
	if e.Description != "" {
		fmt.Printf("  %s\n", e.Description)
	}
}
