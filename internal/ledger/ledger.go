package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a zero or
	// negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrSelfTransfer occurs when an account attempts to transfer to itself.
	ErrSelfTransfer = errors.New("cannot transfer to self")

	// ErrInsufficientFunds occurs when the debited account lacks available
	// balance to cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound indicates the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// TransferResult captures the outcome of a transfer between two accounts.
type TransferResult struct {
	SenderBalance    int64
	RecipientBalance int64
}

// Ledger is the balance store and transfer engine. Every operation executes
// as a single atomic unit: either all participating balances move, or none
// do. Implementations must lock participating accounts in ascending name
// order so that concurrent operations touching overlapping accounts cannot
// deadlock, and must never hold a lock across an external call.
//
// The bank account, when configured, aggregates ecash held in custody: it is
// credited alongside every deposit and debited alongside every withdrawal so
// that assets and liabilities move in lockstep. A missing bank account
// degrades gracefully to mutating the user balance only.
type Ledger interface {
	// EnsureAccount prepares balance tracking for the named account.
	// Backends where the account row itself carries the balance treat this
	// as a no-op.
	EnsureAccount(ctx context.Context, account string) error

	// Balance returns the committed balance for the account.
	Balance(ctx context.Context, account string) (int64, error)

	// Transfer atomically debits sender and credits recipient by amount.
	Transfer(ctx context.Context, sender, recipient string, amount int64) (TransferResult, error)

	// CreditWithBank credits the account and the bank account by amount in
	// one atomic unit, returning the account's new balance.
	CreditWithBank(ctx context.Context, account string, amount int64) (int64, error)

	// DebitWithBank debits the account and the bank account by amount in
	// one atomic unit, returning the account's new balance. The funds check
	// happens under the account lock, never against a stale read.
	DebitWithBank(ctx context.Context, account string, amount int64) (int64, error)
}
