package mint

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotSettled indicates the quote's invoice has not been paid yet.
	// Transient: the caller should poll again later.
	ErrNotSettled = errors.New("quote not settled")

	// ErrQuoteInvalid indicates the mint considers the quote permanently
	// unusable (unknown, cancelled, or rejected). Terminal.
	ErrQuoteInvalid = errors.New("quote permanently invalid")

	// ErrInsufficientReserves indicates the mint holds less ecash than the
	// requested bearer token amount.
	ErrInsufficientReserves = errors.New("insufficient mint reserves")

	// ErrInvalidToken indicates a bearer token that cannot be redeemed,
	// including tokens already spent.
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrUnavailable indicates the mint could not be reached. Transient; no
	// local state may be mutated on this error.
	ErrUnavailable = errors.New("mint unavailable")
)

// Quote correlates a pending deposit invoice with a future settlement
// confirmation.
type Quote struct {
	ID        string
	Invoice   string
	ExpiresAt time.Time
}

// Mint is the settlement oracle: the external service that issues, verifies
// and redeems ecash against Lightning settlement. It owns no ledger state on
// our side; every call is a round trip. Calls may block on the network, so
// callers must never invoke them while holding account locks.
type Mint interface {
	// CreateDepositQuote requests a Lightning invoice for amount and
	// returns the quote correlating it with future settlement.
	CreateDepositQuote(ctx context.Context, amount int64) (Quote, error)

	// FinalizeDeposit claims the settled ecash for a quote, returning the
	// settled amount. Safe to call more than once for the same quote:
	// repeated calls for an already-finalized quote return the amount
	// again. Returns ErrNotSettled while the invoice is unpaid and
	// ErrQuoteInvalid when the quote can never settle.
	FinalizeDeposit(ctx context.Context, quoteID string) (int64, error)

	// ProduceToken issues a bearer token backed by amount units of the
	// bank's ecash reserves.
	ProduceToken(ctx context.Context, amount int64) (string, error)

	// RedeemToken swallows a bearer token and returns its amount. Replays
	// of a spent token are rejected with ErrInvalidToken.
	RedeemToken(ctx context.Context, token string) (int64, error)
}
