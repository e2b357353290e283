package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/coinbank/coinbank/internal/ledger"
)

const minPasswordLength = 8

// Service manages account lifecycle and role-based aggregates.
type Service struct {
	repo   Repository
	ledger ledger.Ledger
}

// NewService creates a new account service.
func NewService(repo Repository, led ledger.Ledger) *Service {
	return &Service{repo: repo, ledger: led}
}

// Register creates a user account with a hashed password and zero balance.
func (s *Service) Register(ctx context.Context, username, password string) (Account, error) {
	return s.create(ctx, username, password, RoleUser)
}

// RegisterBank creates the designated bank custody account.
func (s *Service) RegisterBank(ctx context.Context, username, password string) (Account, error) {
	return s.create(ctx, username, password, RoleBank)
}

func (s *Service) create(ctx context.Context, username, password, role string) (Account, error) {
	if username == "" {
		return Account{}, fmt.Errorf("username is required")
	}
	if len(password) < minPasswordLength {
		return Account{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	acct := Account{
		Username:     username,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		return Account{}, err
	}
	if err := s.ledger.EnsureAccount(ctx, username); err != nil {
		return Account{}, err
	}

	return acct, nil
}

// Authenticate verifies the username/password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	acct, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return acct, nil
}

// Get fetches account metadata.
func (s *Service) Get(ctx context.Context, username string) (Account, error) {
	return s.repo.FindByUsername(ctx, username)
}

// Balance returns the committed ledger balance for the account.
func (s *Service) Balance(ctx context.Context, username string) (int64, error) {
	return s.ledger.Balance(ctx, username)
}

// Stats reports account counts plus assets (bank balances) and liabilities
// (user balances).
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
