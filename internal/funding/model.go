package funding

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateQuote indicates a payment request already exists for the
	// quote identifier.
	ErrDuplicateQuote = errors.New("duplicate quote")

	// ErrQuoteNotFound indicates no payment request matches the quote
	// identifier.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrInvalidTransition indicates a status change the state machine does
	// not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Kind distinguishes deposits from withdrawals.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// Status is the payment request lifecycle state. pending is initial; paid,
// expired and failed are terminal. Transitions are one-way.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusExpired Status = "expired"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusExpired || s == StatusFailed
}

// CanTransition reports whether the state machine allows moving to target.
// Re-entering the current terminal state is allowed as an idempotent no-op.
func (s Status) CanTransition(target Status) bool {
	if s == target {
		return s.Terminal()
	}
	return s == StatusPending && target.Terminal()
}

// PaymentRequest records an in-flight deposit or withdrawal correlated with
// the mint by quote identifier. Requests are never deleted; terminal rows
// form the audit trail.
type PaymentRequest struct {
	ID        string
	Account   string
	Kind      Kind
	Amount    int64
	QuoteID   string
	Invoice   string
	Status    Status
	CreatedAt time.Time
	ExpiresAt time.Time
	PaidAt    *time.Time
}

// Expired reports whether the request's settlement window has closed at now.
func (r PaymentRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
