package model

import "time"

// AccountType is the account's privilege tier
type AccountType uint8

const (
	AccountTypeNormal AccountType = iota + 1
	AccountTypeTutor
	AccountTypeSeniorTutor
	AccountTypeGameMaster
	AccountTypeGod
)

// Account is the top-level login credential holder. It owns zero or more
// characters; the character list itself lives in storage and is fetched via
// Storage.GetAccountCharacters.
type Account struct {
	ID         uint32
	Descriptor string // login name or email, unique
	// PasswordHash is a bcrypt hash of the account password.
	// The plaintext never leaves the authentication gate.
	PasswordHash string
	Type         AccountType
	PremiumUntil time.Time
	CreatedAt    time.Time
}

// AccountSession is a previously established login session. In session auth
// mode the gate verifies one of these instead of the password.
type AccountSession struct {
	Token     string
	AccountID uint32
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *AccountSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CharacterSummary is one entry of an account's character list: enough to
// resolve a login request to a character id without loading the aggregate.
type CharacterSummary struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}
