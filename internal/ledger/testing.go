package ledger

// SeedBalance is a test helper that creates the account if needed and sets
// its balance directly when using the in-memory ledger.
func SeedBalance(l Ledger, account string, amount int64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[account] = amount
	}
}
