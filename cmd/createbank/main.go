package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/coinbank/coinbank/internal/account"
	"github.com/coinbank/coinbank/internal/config"
	"github.com/coinbank/coinbank/internal/infra"
	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/logging"
)

// createbank provisions the custody account that mirrors user deposits and
// withdrawals. Run it once per deployment, after the schema is in place.
func main() {
	username := flag.String("username", "", "bank account username (defaults to BANK_ACCOUNT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New("createbank", cfg.LogLevel)

	name := *username
	if name == "" {
		name = cfg.BankAccount
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "bank username required: pass -username or set BANK_ACCOUNT")
		os.Exit(1)
	}

	password := os.Getenv("BANK_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "bank password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "read password: %v\n", err)
			os.Exit(1)
		}
		password = strings.TrimSpace(line)
	}

	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := account.NewPostgresRepository(db)
	led := ledger.NewPostgresLedger(db, name)
	accounts := account.NewService(repo, led)

	acct, err := accounts.RegisterBank(ctx, name, password)
	if err != nil {
		if errors.Is(err, account.ErrUsernameTaken) {
			logger.Info("bank account already exists", "username", name)
			return
		}
		logger.Error("create bank account", "error", err)
		os.Exit(1)
	}

	logger.Info("bank account created", "username", acct.Username, "role", acct.Role)
}
