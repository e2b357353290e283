package funding

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.Mutex
	requests map[string]PaymentRequest
}

// NewMemoryRepository constructs an in-memory payment request repository for
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{requests: make(map[string]PaymentRequest)}
}

func (r *memoryRepository) Create(_ context.Context, req PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requests[req.QuoteID]; exists {
		return ErrDuplicateQuote
	}
	r.requests[req.QuoteID] = req
	return nil
}

func (r *memoryRepository) GetByQuote(_ context.Context, quoteID string) (PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[quoteID]
	if !ok {
		return PaymentRequest{}, ErrQuoteNotFound
	}
	return req, nil
}

func (r *memoryRepository) Transition(_ context.Context, quoteID string, target Status, paidAt *time.Time) (PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[quoteID]
	if !ok {
		return PaymentRequest{}, ErrQuoteNotFound
	}
	if req.Status == target && target.Terminal() {
		return req, nil
	}
	if !req.Status.CanTransition(target) {
		return PaymentRequest{}, ErrInvalidTransition
	}

	req.Status = target
	if paidAt != nil {
		t := paidAt.UTC()
		req.PaidAt = &t
	}
	r.requests[quoteID] = req
	return req, nil
}

// Settle holds the repository lock across apply, mirroring the row lock the
// Postgres implementation takes, so concurrent settles on the same quote
// serialize and only the first one credits.
func (r *memoryRepository) Settle(ctx context.Context, quoteID string, paidAt time.Time, apply func(context.Context) error) (PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[quoteID]
	if !ok {
		return PaymentRequest{}, ErrQuoteNotFound
	}
	if req.Status.Terminal() {
		return req, nil
	}

	if err := apply(ctx); err != nil {
		return PaymentRequest{}, err
	}

	req.Status = StatusPaid
	t := paidAt.UTC()
	req.PaidAt = &t
	r.requests[quoteID] = req
	return req, nil
}

func (r *memoryRepository) AttachInvoice(_ context.Context, quoteID, invoice string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[quoteID]
	if !ok {
		return ErrQuoteNotFound
	}
	req.Invoice = invoice
	r.requests[quoteID] = req
	return nil
}
