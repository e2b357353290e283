package account

import (
	"context"
	"errors"
	"testing"

	"github.com/coinbank/coinbank/internal/ledger"
)

func newTestService() (*Service, ledger.Ledger) {
	led := ledger.NewInMemory("reserve")
	repo := NewMemoryRepository(led)
	return NewService(repo, led), led
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, led := newTestService()
	ctx := context.Background()

	acct, err := svc.Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.Role != RoleUser {
		t.Fatalf("expected user role, got %s", acct.Role)
	}

	balance, err := led.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("balance after register: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero opening balance, got %d", balance)
	}

	authed, err := svc.Authenticate(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.Username != "alice" {
		t.Fatalf("unexpected account: %+v", authed)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "long enough password"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if _, err := svc.Register(ctx, "alice", "short"); err == nil {
		t.Fatal("expected error for short password")
	}

	if _, err := svc.Register(ctx, "alice", "long enough password"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "long enough password"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestStatsSplitsAssetsAndLiabilities(t *testing.T) {
	svc, led := newTestService()
	ctx := context.Background()

	if _, err := svc.RegisterBank(ctx, "reserve", "bank password"); err != nil {
		t.Fatalf("register bank: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "alice password"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "bob password 123"); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	ledger.SeedBalance(led, "reserve", 900)
	ledger.SeedBalance(led, "alice", 500)
	ledger.SeedBalance(led, "bob", 400)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAccounts != 3 {
		t.Fatalf("expected 3 accounts, got %d", stats.TotalAccounts)
	}
	if stats.TotalAssets != 900 {
		t.Fatalf("expected assets 900, got %d", stats.TotalAssets)
	}
	if stats.TotalLiabilities != 900 {
		t.Fatalf("expected liabilities 900, got %d", stats.TotalLiabilities)
	}
}
