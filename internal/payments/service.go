package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coinbank/coinbank/internal/account"
	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/metrics"
	"github.com/coinbank/coinbank/internal/notification"
)

// Service moves value between accounts through the ledger's atomic transfer.
type Service struct {
	ledger   ledger.Ledger
	accounts account.Repository
	notifier notification.Notifier
}

// NewService constructs a payments service.
func NewService(led ledger.Ledger, accounts account.Repository, notifier notification.Notifier) *Service {
	return &Service{ledger: led, accounts: accounts, notifier: notifier}
}

// SendResult describes the sender-visible outcome of a transfer.
type SendResult struct {
	NewBalance  int64
	CompletedAt time.Time
}

// Send debits the sender and credits the recipient atomically. Validation of
// amount, self-transfer and funds happens inside the ledger under lock.
func (s *Service) Send(ctx context.Context, sender, recipient string, amount int64) (SendResult, error) {
	if _, err := s.accounts.FindByUsername(ctx, recipient); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return SendResult{}, ledger.ErrAccountNotFound
		}
		return SendResult{}, err
	}

	res, err := s.ledger.Transfer(ctx, sender, recipient, amount)
	if err != nil {
		return SendResult{}, err
	}

	metrics.Transfers.Inc()
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: recipient,
			Body:        fmt.Sprintf("You received %d from %s", amount, sender),
		})
	}

	return SendResult{NewBalance: res.SenderBalance, CompletedAt: time.Now().UTC()}, nil
}
