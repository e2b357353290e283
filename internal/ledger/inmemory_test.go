package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestInMemoryLedger_TransferConservesFunds(t *testing.T) {
	l := NewInMemory("coinbank")
	ctx := context.Background()

	SeedBalance(l, "alice", 500)
	SeedBalance(l, "bob", 50)

	res, err := l.Transfer(ctx, "alice", "bob", 200)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if res.SenderBalance != 300 {
		t.Fatalf("expected sender balance 300, got %d", res.SenderBalance)
	}
	if res.RecipientBalance != 250 {
		t.Fatalf("expected recipient balance 250, got %d", res.RecipientBalance)
	}

	impl := l.(*inMemoryLedger)
	total := impl.balances["alice"] + impl.balances["bob"]
	if total != 550 {
		t.Fatalf("funds not conserved, total=%d", total)
	}
}

func TestInMemoryLedger_TransferValidation(t *testing.T) {
	l := NewInMemory("")
	ctx := context.Background()
	SeedBalance(l, "alice", 100)
	SeedBalance(l, "bob", 0)

	if _, err := l.Transfer(ctx, "alice", "bob", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "bob", -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "alice", 10); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("expected self transfer error, got %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "carol", 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "bob", 200); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	if bal, _ := l.Balance(ctx, "alice"); bal != 100 {
		t.Fatalf("failed transfers must not mutate balance, got %d", bal)
	}
}

func TestInMemoryLedger_ConcurrentDebitsSerialize(t *testing.T) {
	l := NewInMemory("")
	ctx := context.Background()
	SeedBalance(l, "alice", 100)
	SeedBalance(l, "bob", 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Transfer(ctx, "alice", "bob", 60)
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			if !errors.Is(err, ErrInsufficientFunds) {
				t.Fatalf("unexpected error: %v", err)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one insufficient funds failure, got %d", failures)
	}

	if bal, _ := l.Balance(ctx, "alice"); bal != 40 {
		t.Fatalf("expected alice balance 40, got %d", bal)
	}
	if bal, _ := l.Balance(ctx, "bob"); bal != 60 {
		t.Fatalf("expected bob balance 60, got %d", bal)
	}
}

func TestInMemoryLedger_ConcurrentDisjointTransfers(t *testing.T) {
	l := NewInMemory("")
	ctx := context.Background()

	accounts := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	for _, acc := range accounts {
		SeedBalance(l, acc, 1_000)
	}

	var wg sync.WaitGroup
	for i := 0; i < len(accounts); i += 2 {
		wg.Add(1)
		go func(sender, recipient string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := l.Transfer(ctx, sender, recipient, 1); err != nil {
					t.Errorf("transfer %s->%s: %v", sender, recipient, err)
					return
				}
			}
		}(accounts[i], accounts[i+1])
	}
	wg.Wait()

	impl := l.(*inMemoryLedger)
	var total int64
	for _, acc := range accounts {
		total += impl.balances[acc]
	}
	if total != 6_000 {
		t.Fatalf("funds not conserved, total=%d", total)
	}
}

func TestInMemoryLedger_CreditWithBank(t *testing.T) {
	l := NewInMemory("coinbank")
	ctx := context.Background()
	SeedBalance(l, "alice", 0)

	newBalance, err := l.CreditWithBank(ctx, "alice", 1_000)
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if newBalance != 1_000 {
		t.Fatalf("expected balance 1000, got %d", newBalance)
	}

	bankBalance, err := l.Balance(ctx, "coinbank")
	if err != nil {
		t.Fatalf("bank balance: %v", err)
	}
	if bankBalance != 1_000 {
		t.Fatalf("expected bank balance to move in lockstep, got %d", bankBalance)
	}
}

func TestInMemoryLedger_CreditWithoutBankAccount(t *testing.T) {
	l := NewInMemory("")
	ctx := context.Background()
	SeedBalance(l, "alice", 0)

	newBalance, err := l.CreditWithBank(ctx, "alice", 500)
	if err != nil {
		t.Fatalf("credit without bank account should degrade gracefully: %v", err)
	}
	if newBalance != 500 {
		t.Fatalf("expected balance 500, got %d", newBalance)
	}
}

func TestInMemoryLedger_DebitWithBank(t *testing.T) {
	l := NewInMemory("coinbank")
	ctx := context.Background()
	SeedBalance(l, "alice", 0)
	SeedBalance(l, "coinbank", 0)

	if _, err := l.CreditWithBank(ctx, "alice", 800); err != nil {
		t.Fatalf("credit: %v", err)
	}

	newBalance, err := l.DebitWithBank(ctx, "alice", 300)
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if newBalance != 500 {
		t.Fatalf("expected balance 500, got %d", newBalance)
	}

	bankBalance, _ := l.Balance(ctx, "coinbank")
	if bankBalance != 500 {
		t.Fatalf("expected bank balance 500, got %d", bankBalance)
	}

	if _, err := l.DebitWithBank(ctx, "alice", 10_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if bal, _ := l.Balance(ctx, "alice"); bal != 500 {
		t.Fatalf("failed debit must not mutate balance, got %d", bal)
	}
}
