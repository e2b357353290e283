package funding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusFailed, true},
		{StatusPaid, StatusExpired, false},
		{StatusExpired, StatusPaid, false},
		{StatusFailed, StatusPending, false},
		{StatusPaid, StatusPaid, true},
		{StatusExpired, StatusExpired, true},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestRepositoryTransitionGuards(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	quoteID := uuid.NewString()
	req := PaymentRequest{
		ID:        uuid.NewString(),
		Account:   "alice",
		Kind:      KindDeposit,
		Amount:    100,
		QuoteID:   quoteID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
	}
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Create(ctx, req); !errors.Is(err, ErrDuplicateQuote) {
		t.Fatalf("expected duplicate quote, got %v", err)
	}

	now := time.Now().UTC()
	paid, err := repo.Transition(ctx, quoteID, StatusPaid, &now)
	if err != nil {
		t.Fatalf("transition to paid: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid with timestamp, got %+v", paid)
	}

	// Terminal states never move to a different terminal state.
	if _, err := repo.Transition(ctx, quoteID, StatusExpired, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	// Re-entering the same terminal state is an idempotent no-op.
	again, err := repo.Transition(ctx, quoteID, StatusPaid, nil)
	if err != nil {
		t.Fatalf("idempotent paid transition: %v", err)
	}
	if again.Status != StatusPaid {
		t.Fatalf("expected paid, got %s", again.Status)
	}

	if _, err := repo.Transition(ctx, uuid.NewString(), StatusPaid, nil); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected quote not found, got %v", err)
	}
}

func TestRequestExpired(t *testing.T) {
	now := time.Now().UTC()
	req := PaymentRequest{ExpiresAt: now}

	if req.Expired(now) {
		t.Fatal("request should not be expired exactly at the deadline")
	}
	if !req.Expired(now.Add(time.Second)) {
		t.Fatal("request should be expired past the deadline")
	}
}
