package ledger

import (
	"context"
	"sync"
)

type inMemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	bank     string
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and local development. bank may be empty to run without a designated
// bank account.
func NewInMemory(bank string) Ledger {
	l := &inMemoryLedger{
		balances: make(map[string]int64),
		bank:     bank,
	}
	if bank != "" {
		l.balances[bank] = 0
	}
	return l
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, account string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[account]; !exists {
		l.balances[account] = 0
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, exists := l.balances[account]
	if !exists {
		return 0, ErrAccountNotFound
	}
	return balance, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, sender, recipient string, amount int64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if sender == recipient {
		return TransferResult{}, ErrSelfTransfer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	senderBalance, ok := l.balances[sender]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}
	recipientBalance, ok := l.balances[recipient]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}

	if senderBalance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}

	senderBalance -= amount
	recipientBalance += amount
	l.balances[sender] = senderBalance
	l.balances[recipient] = recipientBalance

	return TransferResult{SenderBalance: senderBalance, RecipientBalance: recipientBalance}, nil
}

func (l *inMemoryLedger) CreditWithBank(_ context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[account]
	if !ok {
		return 0, ErrAccountNotFound
	}

	balance += amount
	l.balances[account] = balance

	if bank, ok := l.bankAccountLocked(account); ok {
		l.balances[bank] += amount
	}

	return balance, nil
}

func (l *inMemoryLedger) DebitWithBank(_ context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[account]
	if !ok {
		return 0, ErrAccountNotFound
	}
	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	balance -= amount
	l.balances[account] = balance

	if bank, ok := l.bankAccountLocked(account); ok {
		l.balances[bank] -= amount
	}

	return balance, nil
}

// bankAccountLocked reports the bank account to mirror a mutation into, if
// one is configured, exists and is not the mutated account itself. Callers
// must hold l.mu.
func (l *inMemoryLedger) bankAccountLocked(account string) (string, bool) {
	if l.bank == "" || l.bank == account {
		return "", false
	}
	if _, exists := l.balances[l.bank]; !exists {
		return "", false
	}
	return l.bank, true
}
