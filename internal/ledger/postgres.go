package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists balances on the accounts table in PostgreSQL.
// Row locks are taken with SELECT ... FOR UPDATE in ascending username order
// inside a single transaction per operation.
type PostgresLedger struct {
	db   *pgxpool.Pool
	bank string
}

// NewPostgresLedger constructs a Postgres-backed ledger. bank names the
// designated bank account, or is empty to run without one.
func NewPostgresLedger(db *pgxpool.Pool, bank string) *PostgresLedger {
	return &PostgresLedger{db: db, bank: bank}
}

// EnsureAccount is a no-op: the balance lives on the accounts row, which the
// account repository creates at registration time.
func (l *PostgresLedger) EnsureAccount(_ context.Context, _ string) error {
	return nil
}

// Balance returns the committed balance for the account.
func (l *PostgresLedger) Balance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := l.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE username = $1`, account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Transfer atomically moves amount from sender to recipient.
func (l *PostgresLedger) Transfer(ctx context.Context, sender, recipient string, amount int64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if sender == recipient {
		return TransferResult{}, ErrSelfTransfer
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock both rows in ascending username order.
	first, second := sender, recipient
	if first > second {
		first, second = second, first
	}
	firstBalance, err := lockBalance(ctx, tx, first)
	if err != nil {
		return TransferResult{}, err
	}
	secondBalance, err := lockBalance(ctx, tx, second)
	if err != nil {
		return TransferResult{}, err
	}

	senderBalance := firstBalance
	if sender != first {
		senderBalance = secondBalance
	}
	if senderBalance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}

	newSender, err := applyDelta(ctx, tx, sender, -amount)
	if err != nil {
		return TransferResult{}, err
	}
	newRecipient, err := applyDelta(ctx, tx, recipient, amount)
	if err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{SenderBalance: newSender, RecipientBalance: newRecipient}, nil
}

// CreditWithBank credits the account and the bank account in one transaction.
func (l *PostgresLedger) CreditWithBank(ctx context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return l.adjustWithBank(ctx, account, amount)
}

// DebitWithBank debits the account and the bank account in one transaction.
// The funds check runs against the locked row.
func (l *PostgresLedger) DebitWithBank(ctx context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return l.adjustWithBank(ctx, account, -amount)
}

func (l *PostgresLedger) adjustWithBank(ctx context.Context, account string, delta int64) (int64, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	withBank := l.bank != "" && l.bank != account

	// Lock in ascending username order; the bank row is optional and its
	// absence degrades to mutating the user balance only.
	if withBank && l.bank < account {
		if withBank, err = l.lockBankRow(ctx, tx); err != nil {
			return 0, err
		}
	}
	balance, err := lockBalance(ctx, tx, account)
	if err != nil {
		return 0, err
	}
	if withBank && l.bank > account {
		if withBank, err = l.lockBankRow(ctx, tx); err != nil {
			return 0, err
		}
	}

	if delta < 0 && balance < -delta {
		return 0, ErrInsufficientFunds
	}

	newBalance, err := applyDelta(ctx, tx, account, delta)
	if err != nil {
		return 0, err
	}
	if withBank {
		if _, err := applyDelta(ctx, tx, l.bank, delta); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (l *PostgresLedger) lockBankRow(ctx context.Context, tx pgx.Tx) (bool, error) {
	_, err := lockBalance(ctx, tx, l.bank)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func lockBalance(ctx context.Context, tx pgx.Tx, account string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE username = $1 FOR UPDATE`, account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func applyDelta(ctx context.Context, tx pgx.Tx, account string, delta int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `UPDATE accounts SET balance = balance + $1 WHERE username = $2 RETURNING balance`,
		delta, account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
