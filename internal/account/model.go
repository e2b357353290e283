package account

import (
	"errors"
	"time"
)

var (
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrNotFound indicates no account matches the username.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	// RoleUser marks a customer account; its balance is a liability.
	RoleUser = "user"
	// RoleBank marks the designated custody account; its balance is the
	// bank's assets. Exactly one bank account is expected.
	RoleBank = "bank"
)

// Account represents a registered account. The balance lives on the same
// row but is mutated exclusively through the ledger.
type Account struct {
	Username     string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// IsBank reports whether the account is the custody account.
func (a Account) IsBank() bool {
	return a.Role == RoleBank
}

// Stats aggregates balances across roles. Assets and liabilities are
// reported independently; nothing enforces assets >= liabilities.
type Stats struct {
	TotalAccounts    int64
	TotalAssets      int64
	TotalLiabilities int64
}
