package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/metrics"
	"github.com/coinbank/coinbank/internal/mint"
	"github.com/coinbank/coinbank/internal/notification"
)

// Service reconciles payment requests against the mint and applies the
// resulting credits and debits to the ledger. Mint calls happen outside any
// account lock; balance mutation is delegated to the ledger's atomic units.
type Service struct {
	ledger     ledger.Ledger
	requests   Repository
	mint       mint.Mint
	notifier   notification.Notifier
	invoiceTTL time.Duration
	logger     *slog.Logger
}

// NewService constructs a funding service.
func NewService(ledgerBackend ledger.Ledger, requests Repository, m mint.Mint, notifier notification.Notifier, invoiceTTL time.Duration, logger *slog.Logger) (*Service, error) {
	if ledgerBackend == nil || requests == nil || m == nil {
		return nil, fmt.Errorf("ledger, repository and mint are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:     ledgerBackend,
		requests:   requests,
		mint:       m,
		notifier:   notifier,
		invoiceTTL: invoiceTTL,
		logger:     logger,
	}, nil
}

// DepositInvoice is handed back to the caller to pay externally.
type DepositInvoice struct {
	QuoteID   string
	Invoice   string
	ExpiresAt time.Time
}

// CreateDeposit requests a settlement quote from the mint and records a
// pending payment request keyed by the returned quote identifier.
func (s *Service) CreateDeposit(ctx context.Context, account string, amount int64) (DepositInvoice, error) {
	if amount <= 0 {
		return DepositInvoice{}, ledger.ErrInvalidAmount
	}

	quote, err := s.mint.CreateDepositQuote(ctx, amount)
	if err != nil {
		s.logger.Error("create deposit quote", "account", account, "error", err)
		return DepositInvoice{}, fmt.Errorf("%w: %v", mint.ErrUnavailable, err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.invoiceTTL)
	if !quote.ExpiresAt.IsZero() && quote.ExpiresAt.Before(expiresAt) {
		expiresAt = quote.ExpiresAt
	}

	req := PaymentRequest{
		ID:        uuid.NewString(),
		Account:   account,
		Kind:      KindDeposit,
		Amount:    amount,
		QuoteID:   quote.ID,
		Invoice:   quote.Invoice,
		Status:    StatusPending,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return DepositInvoice{}, err
	}

	metrics.DepositsInitiated.Inc()
	return DepositInvoice{QuoteID: quote.ID, Invoice: quote.Invoice, ExpiresAt: expiresAt}, nil
}

// DepositStatus reports the reconciled state of a deposit.
type DepositStatus struct {
	Status     Status
	Amount     int64
	NewBalance int64
}

// CheckDeposit advances the payment request toward a terminal state. It is
// idempotent: once a request is terminal, repeated checks report the same
// outcome without side effects.
//
// Settlement is polled before the expiry clock is read: a payment that
// completed after expires_at still wins, and only a quote the mint reports as
// not settled may expire. The ledger credit commits no later than the paid
// transition, so a crash in between leaves the request pending and
// re-checkable instead of losing the credit.
func (s *Service) CheckDeposit(ctx context.Context, account, quoteID string) (DepositStatus, error) {
	req, err := s.requests.GetByQuote(ctx, quoteID)
	if err != nil {
		return DepositStatus{}, err
	}
	if req.Account != account || req.Kind != KindDeposit {
		return DepositStatus{}, ErrQuoteNotFound
	}

	if req.Status.Terminal() {
		return s.terminalStatus(ctx, req), nil
	}

	amount, err := s.mint.FinalizeDeposit(ctx, quoteID)
	switch {
	case err == nil:
		return s.settleDeposit(ctx, req, amount)

	case errors.Is(err, mint.ErrNotSettled):
		if req.Expired(time.Now().UTC()) {
			expired, err := s.requests.Transition(ctx, quoteID, StatusExpired, nil)
			if errors.Is(err, ErrInvalidTransition) {
				// A concurrent check reached a terminal state first.
				if current, err := s.requests.GetByQuote(ctx, quoteID); err == nil && current.Status.Terminal() {
					return s.terminalStatus(ctx, current), nil
				}
			}
			if err != nil {
				return DepositStatus{}, err
			}
			return DepositStatus{Status: expired.Status, Amount: req.Amount}, nil
		}
		return DepositStatus{Status: StatusPending, Amount: req.Amount}, nil

	case errors.Is(err, mint.ErrQuoteInvalid):
		failed, err := s.requests.Transition(ctx, quoteID, StatusFailed, nil)
		if err != nil {
			return DepositStatus{}, err
		}
		return DepositStatus{Status: failed.Status, Amount: req.Amount}, nil

	default:
		s.logger.Error("finalize deposit", "quote_id", quoteID, "error", err)
		return DepositStatus{}, fmt.Errorf("%w: %v", mint.ErrUnavailable, err)
	}
}

func (s *Service) terminalStatus(ctx context.Context, req PaymentRequest) DepositStatus {
	status := DepositStatus{Status: req.Status, Amount: req.Amount}
	if req.Status == StatusPaid {
		if balance, err := s.ledger.Balance(ctx, req.Account); err == nil {
			status.NewBalance = balance
		}
	}
	return status
}

// settleDeposit applies the credit and records the paid transition under the
// repository's per-quote settlement lock. Concurrent checks on the same quote
// serialize there: the first one credits, later ones observe the terminal row
// and credit nothing.
func (s *Service) settleDeposit(ctx context.Context, req PaymentRequest, amount int64) (DepositStatus, error) {
	var (
		newBalance int64
		credited   bool
	)
	settled, err := s.requests.Settle(ctx, req.QuoteID, time.Now().UTC(), func(ctx context.Context) error {
		balance, err := s.ledger.CreditWithBank(ctx, req.Account, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		credited = true
		return nil
	})
	if err != nil {
		// The request stays pending; the next check retries the credit.
		s.logger.Error("settle deposit", "quote_id", req.QuoteID, "error", err)
		return DepositStatus{}, err
	}
	if settled.Status != StatusPaid {
		return DepositStatus{Status: settled.Status, Amount: req.Amount}, nil
	}
	if !credited {
		return s.terminalStatus(ctx, settled), nil
	}

	metrics.DepositsSettled.Inc()
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDepositSettled,
			Destination: req.Account,
			Body:        fmt.Sprintf("Deposit of %d settled", amount),
		})
	}

	return DepositStatus{Status: StatusPaid, Amount: amount, NewBalance: newBalance}, nil
}

// WithdrawResult carries the bearer token produced for a withdrawal.
type WithdrawResult struct {
	Token      string
	Amount     int64
	NewBalance int64
}

// Withdraw produces a bearer token backed by the bank's reserves and debits
// the account. A withdraw intent is persisted before the mint call so the
// path stays auditable if the process dies between token production and the
// debit.
func (s *Service) Withdraw(ctx context.Context, account string, amount int64) (WithdrawResult, error) {
	if amount <= 0 {
		return WithdrawResult{}, ledger.ErrInvalidAmount
	}

	// Cheap pre-check; the authoritative check runs under the row lock in
	// DebitWithBank.
	balance, err := s.ledger.Balance(ctx, account)
	if err != nil {
		return WithdrawResult{}, err
	}
	if balance < amount {
		return WithdrawResult{}, ledger.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	intent := PaymentRequest{
		ID:        uuid.NewString(),
		Account:   account,
		Kind:      KindWithdraw,
		Amount:    amount,
		QuoteID:   "withdraw-" + uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.invoiceTTL),
	}
	if err := s.requests.Create(ctx, intent); err != nil {
		return WithdrawResult{}, err
	}

	token, err := s.mint.ProduceToken(ctx, amount)
	if err != nil {
		s.failIntent(ctx, intent.QuoteID)
		if errors.Is(err, mint.ErrInsufficientReserves) {
			return WithdrawResult{}, err
		}
		s.logger.Error("produce bearer token", "account", account, "error", err)
		return WithdrawResult{}, fmt.Errorf("%w: %v", mint.ErrUnavailable, err)
	}
	if err := s.requests.AttachInvoice(ctx, intent.QuoteID, token); err != nil {
		s.logger.Warn("attach token to withdraw intent", "quote_id", intent.QuoteID, "error", err)
	}

	newBalance, err := s.ledger.DebitWithBank(ctx, account, amount)
	if err != nil {
		// Ecash already left custody; the intent row records the mismatch.
		s.logger.Error("debit after token production", "quote_id", intent.QuoteID, "error", err)
		s.failIntent(ctx, intent.QuoteID)
		return WithdrawResult{}, err
	}

	paidAt := time.Now().UTC()
	if _, err := s.requests.Transition(ctx, intent.QuoteID, StatusPaid, &paidAt); err != nil {
		s.logger.Error("mark withdraw paid", "quote_id", intent.QuoteID, "error", err)
	}

	metrics.Withdrawals.Inc()
	return WithdrawResult{Token: token, Amount: amount, NewBalance: newBalance}, nil
}

// RedeemResult carries the outcome of swallowing a bearer token.
type RedeemResult struct {
	Amount     int64
	NewBalance int64
}

// Redeem swallows a bearer token at the mint and credits the account. The
// mint rejects replays of spent tokens, so no local deduplication is kept.
func (s *Service) Redeem(ctx context.Context, account, token string) (RedeemResult, error) {
	if token == "" {
		return RedeemResult{}, mint.ErrInvalidToken
	}

	amount, err := s.mint.RedeemToken(ctx, token)
	if err != nil {
		if errors.Is(err, mint.ErrInvalidToken) {
			return RedeemResult{}, err
		}
		s.logger.Error("redeem bearer token", "account", account, "error", err)
		return RedeemResult{}, fmt.Errorf("%w: %v", mint.ErrUnavailable, err)
	}

	newBalance, err := s.ledger.CreditWithBank(ctx, account, amount)
	if err != nil {
		return RedeemResult{}, err
	}

	metrics.TokensRedeemed.Inc()
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTokenRedeemed,
			Destination: account,
			Body:        fmt.Sprintf("Token worth %d redeemed", amount),
		})
	}

	return RedeemResult{Amount: amount, NewBalance: newBalance}, nil
}

func (s *Service) failIntent(ctx context.Context, quoteID string) {
	if _, err := s.requests.Transition(ctx, quoteID, StatusFailed, nil); err != nil {
		s.logger.Warn("mark withdraw intent failed", "quote_id", quoteID, "error", err)
	}
}
