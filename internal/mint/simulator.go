package mint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const tokenPrefix = "coinbankA"

type simulatedQuote struct {
	amount    int64
	settled   bool
	finalized bool
	invalid   bool
}

// Simulator is an in-process mint for tests and local development. Quotes
// settle when Settle is called, bearer tokens are single-use, and reserves
// grow with finalized deposits and redeemed tokens.
type Simulator struct {
	mu       sync.Mutex
	quotes   map[string]*simulatedQuote
	tokens   map[string]int64
	reserves int64
	ttl      time.Duration
}

// NewSimulator creates a simulator issuing quotes that expire after ttl.
func NewSimulator(ttl time.Duration) *Simulator {
	return &Simulator{
		quotes: make(map[string]*simulatedQuote),
		tokens: make(map[string]int64),
		ttl:    ttl,
	}
}

// CreateDepositQuote issues a synthetic invoice for the amount.
func (s *Simulator) CreateDepositQuote(_ context.Context, amount int64) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.quotes[id] = &simulatedQuote{amount: amount}
	return Quote{
		ID:        id,
		Invoice:   fmt.Sprintf("lnbcsim%d_%s", amount, id),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

// FinalizeDeposit claims the ecash for a settled quote. Repeated calls for a
// finalized quote return the amount again.
func (s *Simulator) FinalizeDeposit(_ context.Context, quoteID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[quoteID]
	if !ok || q.invalid {
		return 0, ErrQuoteInvalid
	}
	if !q.settled {
		return 0, ErrNotSettled
	}
	if !q.finalized {
		q.finalized = true
		s.reserves += q.amount
	}
	return q.amount, nil
}

// ProduceToken issues a single-use bearer token backed by the reserves.
func (s *Simulator) ProduceToken(_ context.Context, amount int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount > s.reserves {
		return "", ErrInsufficientReserves
	}

	id := uuid.NewString()
	payload, err := json.Marshal(map[string]any{"id": id, "amount": amount})
	if err != nil {
		return "", err
	}
	s.reserves -= amount
	token := tokenPrefix + base64.RawURLEncoding.EncodeToString(payload)
	s.tokens[token] = amount
	return token, nil
}

// RedeemToken swallows a previously issued token. Replays are rejected.
func (s *Simulator) RedeemToken(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := s.tokens[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	delete(s.tokens, token)
	s.reserves += amount
	return amount, nil
}

// Settle marks the quote's invoice as paid. Test hook.
func (s *Simulator) Settle(quoteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quotes[quoteID]; ok {
		q.settled = true
	}
}

// Invalidate marks the quote as permanently unusable. Test hook.
func (s *Simulator) Invalidate(quoteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quotes[quoteID]; ok {
		q.invalid = true
	}
}

// SeedReserves adds ecash to the simulated reserves. Test hook.
func (s *Simulator) SeedReserves(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserves += amount
}
