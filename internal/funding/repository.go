package funding

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists payment requests. Status mutates only through
// Transition and Settle; both enforce the state machine so that concurrent
// reconciliation passes cannot double-apply a move.
type Repository interface {
	Create(ctx context.Context, req PaymentRequest) error
	GetByQuote(ctx context.Context, quoteID string) (PaymentRequest, error)
	Transition(ctx context.Context, quoteID string, target Status, paidAt *time.Time) (PaymentRequest, error)

	// Settle finishes a pending request as paid. The request is locked for
	// the whole call, so concurrent settlement passes on the same quote
	// serialize: exactly one runs apply and records the transition, later
	// ones get the terminal row back without apply running. apply performs
	// the balance credit and commits it before the paid mark is recorded.
	Settle(ctx context.Context, quoteID string, paidAt time.Time, apply func(context.Context) error) (PaymentRequest, error)

	AttachInvoice(ctx context.Context, quoteID, invoice string) error
}

const requestColumns = `id, account, kind, amount, quote_id, invoice, status, created_at, expires_at, paid_at`

// PostgresRepository stores payment requests in PostgreSQL. quote_id carries
// a unique index, so duplicate creation surfaces as a constraint violation.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payment request repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending payment request.
func (r *PostgresRepository) Create(ctx context.Context, req PaymentRequest) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payment_requests
        (id, account, kind, amount, quote_id, invoice, status, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.Account, string(req.Kind), req.Amount, req.QuoteID, req.Invoice,
		string(req.Status), req.CreatedAt.UTC(), req.ExpiresAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateQuote
	}
	return err
}

// GetByQuote fetches a payment request by its quote identifier.
func (r *PostgresRepository) GetByQuote(ctx context.Context, quoteID string) (PaymentRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM payment_requests WHERE quote_id = $1`, quoteID)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentRequest{}, ErrQuoteNotFound
	}
	return req, err
}

// Transition moves the request to target if the state machine allows it. The
// update is guarded on the current status being pending; when the guard
// misses, re-entering the already-reached terminal state is reported as a
// no-op and anything else as ErrInvalidTransition.
func (r *PostgresRepository) Transition(ctx context.Context, quoteID string, target Status, paidAt *time.Time) (PaymentRequest, error) {
	if !StatusPending.CanTransition(target) {
		return PaymentRequest{}, ErrInvalidTransition
	}

	row := r.db.QueryRow(ctx, `UPDATE payment_requests
        SET status = $2, paid_at = COALESCE($3, paid_at)
        WHERE quote_id = $1 AND status = $4
        RETURNING `+requestColumns,
		quoteID, string(target), toNullableTime(paidAt), string(StatusPending))
	req, err := scanRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return PaymentRequest{}, err
	}

	current, err := r.GetByQuote(ctx, quoteID)
	if err != nil {
		return PaymentRequest{}, err
	}
	if current.Status == target {
		return current, nil
	}
	return PaymentRequest{}, ErrInvalidTransition
}

// Settle locks the request row with SELECT ... FOR UPDATE, runs apply while
// the lock is held, and marks the row paid. A checker that loses the race
// blocks on the lock, then sees the terminal row and skips apply. apply runs
// on its own pool connection and commits independently, so the credit is
// durable no later than the paid mark.
func (r *PostgresRepository) Settle(ctx context.Context, quoteID string, paidAt time.Time, apply func(context.Context) error) (PaymentRequest, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PaymentRequest{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM payment_requests WHERE quote_id = $1 FOR UPDATE`, quoteID)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentRequest{}, ErrQuoteNotFound
	}
	if err != nil {
		return PaymentRequest{}, err
	}
	if req.Status.Terminal() {
		return req, nil
	}

	if err := apply(ctx); err != nil {
		return PaymentRequest{}, err
	}

	row = tx.QueryRow(ctx, `UPDATE payment_requests SET status = $2, paid_at = $3 WHERE quote_id = $1 RETURNING `+requestColumns,
		quoteID, string(StatusPaid), paidAt.UTC())
	req, err = scanRequest(row)
	if err != nil {
		return PaymentRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return PaymentRequest{}, err
	}
	return req, nil
}

// AttachInvoice stores the settlement descriptor on the request.
func (r *PostgresRepository) AttachInvoice(ctx context.Context, quoteID, invoice string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE payment_requests SET invoice = $2 WHERE quote_id = $1`, quoteID, invoice)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func toNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanRequest(row pgx.Row) (PaymentRequest, error) {
	var (
		req       PaymentRequest
		kind      string
		status    string
		createdAt time.Time
		expiresAt time.Time
		paidAt    *time.Time
	)
	if err := row.Scan(&req.ID, &req.Account, &kind, &req.Amount, &req.QuoteID, &req.Invoice,
		&status, &createdAt, &expiresAt, &paidAt); err != nil {
		return PaymentRequest{}, err
	}
	req.Kind = Kind(kind)
	req.Status = Status(status)
	req.CreatedAt = createdAt.UTC()
	req.ExpiresAt = expiresAt.UTC()
	if paidAt != nil {
		t := paidAt.UTC()
		req.PaidAt = &t
	}
	return req, nil
}
