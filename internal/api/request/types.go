package request

// Login requests a game world login for one character on an account
type Login struct {
	Account     string `json:"account"`
	Credential  string `json:"credential"`
	Character   string `json:"character"`
	OldProtocol bool   `json:"old_protocol"`
}

// CreateSession exchanges account credentials for a session token
type CreateSession struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// AddVip adds a character to the account's VIP list
type AddVip struct {
	Name string `json:"name"`
}

// EditVip updates the notes on an existing VIP entry
type EditVip struct {
	Description string `json:"description"`
	Icon        uint32 `json:"icon"`
	Notify      bool   `json:"notify"`
}

// AdjustBankBalance changes a player's bank balance by a signed amount
type AdjustBankBalance struct {
	Amount int64 `json:"amount"`
}
