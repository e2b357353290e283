package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coinbank/coinbank/internal/account"
	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/notification"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func newFixture(t *testing.T) (*Service, ledger.Ledger, *testNotifier) {
	t.Helper()
	led := ledger.NewInMemory("reserve")
	repo := account.NewMemoryRepository(led)
	accounts := account.NewService(repo, led)
	notifier := &testNotifier{}

	ctx := context.Background()
	for _, name := range []string{"alice", "bob"} {
		if _, err := accounts.Register(ctx, name, name+" password"); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	return NewService(led, repo, notifier), led, notifier
}

func TestSendSuccess(t *testing.T) {
	svc, led, notifier := newFixture(t)
	ctx := context.Background()
	ledger.SeedBalance(led, "alice", 500)
	ledger.SeedBalance(led, "bob", 50)

	res, err := svc.Send(ctx, "alice", "bob", 200)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.NewBalance != 300 {
		t.Fatalf("expected sender balance 300, got %d", res.NewBalance)
	}
	if res.CompletedAt.After(time.Now().UTC().Add(time.Second)) {
		t.Fatalf("completed_at in the future: %v", res.CompletedAt)
	}

	bobBalance, err := led.Balance(ctx, "bob")
	if err != nil {
		t.Fatalf("bob balance: %v", err)
	}
	if bobBalance != 250 {
		t.Fatalf("expected recipient balance 250, got %d", bobBalance)
	}

	if notifier.last.Kind != notification.KindTransferReceived {
		t.Fatalf("expected transfer notification, got %+v", notifier.last)
	}
	if notifier.last.Destination != "bob" {
		t.Fatalf("notification should target the recipient, got %s", notifier.last.Destination)
	}
}

func TestSendValidation(t *testing.T) {
	svc, led, _ := newFixture(t)
	ctx := context.Background()
	ledger.SeedBalance(led, "alice", 100)

	if _, err := svc.Send(ctx, "alice", "bob", 0); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := svc.Send(ctx, "alice", "alice", 50); !errors.Is(err, ledger.ErrSelfTransfer) {
		t.Fatalf("expected self transfer error, got %v", err)
	}
	if _, err := svc.Send(ctx, "alice", "bob", 101); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if _, err := svc.Send(ctx, "alice", "nobody", 50); !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}

	// Failed sends must not move funds.
	if balance, _ := led.Balance(ctx, "alice"); balance != 100 {
		t.Fatalf("expected balance untouched, got %d", balance)
	}
}
