package mint

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimulatorDepositFlow(t *testing.T) {
	sim := NewSimulator(15 * time.Minute)
	ctx := context.Background()

	quote, err := sim.CreateDepositQuote(ctx, 1_000)
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if quote.ID == "" || quote.Invoice == "" {
		t.Fatalf("expected quote id and invoice, got %+v", quote)
	}

	if _, err := sim.FinalizeDeposit(ctx, quote.ID); !errors.Is(err, ErrNotSettled) {
		t.Fatalf("expected not settled, got %v", err)
	}

	sim.Settle(quote.ID)

	amount, err := sim.FinalizeDeposit(ctx, quote.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if amount != 1_000 {
		t.Fatalf("expected 1000, got %d", amount)
	}

	// Finalize is idempotent and must not grow reserves twice.
	if _, err := sim.FinalizeDeposit(ctx, quote.ID); err != nil {
		t.Fatalf("re-finalize: %v", err)
	}
	if _, err := sim.ProduceToken(ctx, 1_001); !errors.Is(err, ErrInsufficientReserves) {
		t.Fatalf("expected reserves capped at 1000, got %v", err)
	}
}

func TestSimulatorInvalidQuote(t *testing.T) {
	sim := NewSimulator(time.Minute)
	ctx := context.Background()

	quote, err := sim.CreateDepositQuote(ctx, 500)
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	sim.Invalidate(quote.ID)

	if _, err := sim.FinalizeDeposit(ctx, quote.ID); !errors.Is(err, ErrQuoteInvalid) {
		t.Fatalf("expected quote invalid, got %v", err)
	}
	if _, err := sim.FinalizeDeposit(ctx, "unknown"); !errors.Is(err, ErrQuoteInvalid) {
		t.Fatalf("expected quote invalid for unknown id, got %v", err)
	}
}

func TestSimulatorTokenLifecycle(t *testing.T) {
	sim := NewSimulator(time.Minute)
	ctx := context.Background()
	sim.SeedReserves(300)

	token, err := sim.ProduceToken(ctx, 200)
	if err != nil {
		t.Fatalf("produce token: %v", err)
	}

	amount, err := sim.RedeemToken(ctx, token)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if amount != 200 {
		t.Fatalf("expected 200, got %d", amount)
	}

	if _, err := sim.RedeemToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected replay rejection, got %v", err)
	}

	// Redeemed value returns to the reserves.
	if _, err := sim.ProduceToken(ctx, 300); err != nil {
		t.Fatalf("expected reserves restored, got %v", err)
	}
}
