package account

import (
	"context"
	"sync"

	"github.com/coinbank/coinbank/internal/ledger"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
	ledger   ledger.Ledger
}

// NewMemoryRepository constructs an in-memory repository for tests. Balances
// for stats are read from the provided ledger.
func NewMemoryRepository(led ledger.Ledger) Repository {
	return &memoryRepository{accounts: make(map[string]Account), ledger: led}
}

func (r *memoryRepository) Create(_ context.Context, acct Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[acct.Username]; exists {
		return ErrUsernameTaken
	}
	r.accounts[acct.Username] = acct
	return nil
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[username]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (r *memoryRepository) Stats(ctx context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats Stats
	for username, acct := range r.accounts {
		stats.TotalAccounts++
		balance, err := r.ledger.Balance(ctx, username)
		if err != nil {
			continue
		}
		if acct.IsBank() {
			stats.TotalAssets += balance
		} else {
			stats.TotalLiabilities += balance
		}
	}
	return stats, nil
}
