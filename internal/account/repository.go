package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, acct Account) error
	FindByUsername(ctx context.Context, username string) (Account, error)
	Stats(ctx context.Context) (Stats, error)
}

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an account with a zero starting balance.
func (r *PostgresRepository) Create(ctx context.Context, acct Account) error {
	_, err := r.db.Exec(ctx, `INSERT INTO accounts (username, password_hash, role, balance, created_at)
        VALUES ($1, $2, $3, 0, $4)`, acct.Username, acct.PasswordHash, acct.Role, acct.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

// FindByUsername fetches an account by username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT username, role, password_hash, created_at
        FROM accounts WHERE username = $1`, username)
	var (
		acct      Account
		createdAt time.Time
	)
	if err := row.Scan(&acct.Username, &acct.Role, &acct.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}

// Stats aggregates account counts and balances by role.
func (r *PostgresRepository) Stats(ctx context.Context) (Stats, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*),
        COALESCE(SUM(balance) FILTER (WHERE role = $1), 0),
        COALESCE(SUM(balance) FILTER (WHERE role = $2), 0)
        FROM accounts`, RoleBank, RoleUser)
	var stats Stats
	if err := row.Scan(&stats.TotalAccounts, &stats.TotalAssets, &stats.TotalLiabilities); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
