package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/coinbank/coinbank/internal/account"
	"github.com/coinbank/coinbank/internal/auth"
	"github.com/coinbank/coinbank/internal/config"
	"github.com/coinbank/coinbank/internal/funding"
	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/metrics"
	"github.com/coinbank/coinbank/internal/middleware"
	"github.com/coinbank/coinbank/internal/mint"
	"github.com/coinbank/coinbank/internal/notification"
	"github.com/coinbank/coinbank/internal/payments"
)

// Deps aggregates shared dependencies required to wire routes. Mint may be
// nil, in which case the in-process simulator backs settlement.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Mint   mint.Mint
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	RegisterHealthRoutes(app, d)

	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB, d.Cfg.BankAccount)
	} else {
		ledgerBackend = ledger.NewInMemory(d.Cfg.BankAccount)
	}

	var accountRepo account.Repository
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository(ledgerBackend)
	}
	accountSvc := account.NewService(accountRepo, ledgerBackend)

	settlement := d.Mint
	if settlement == nil {
		settlement = mint.NewSimulator(d.Cfg.InvoiceTTL)
	}

	var requestRepo funding.Repository
	if d.DB != nil {
		requestRepo = funding.NewPostgresRepository(d.DB)
	} else {
		requestRepo = funding.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	fundingSvc, err := funding.NewService(ledgerBackend, requestRepo, settlement, notifier, d.Cfg.InvoiceTTL, d.Logger)
	if err != nil {
		return err
	}
	paymentSvc := payments.NewService(ledgerBackend, accountRepo, notifier)

	sessions := auth.NewService(d.Cache, d.Cfg.SessionTTL)
	accountHandler := account.NewHandler(accountSvc, d.Cfg.CoinName, d.Cfg.CoinSymbol)
	authHandler := auth.NewHandler(accountSvc, sessions, d.Cfg.CoinName, d.Cfg.CoinSymbol)
	fundingHandler := funding.NewHandler(fundingSvc)
	paymentHandler := payments.NewHandler(paymentSvc)

	api := app.Group("/api/v1")

	// Public routes
	RegisterAccountRoutes(api, accountHandler, authHandler, middleware.LoginRateLimit(d.Cache, 5))
	RegisterMintRoutes(api, mint.NewInfoClient(d.Cfg.MintURL))

	// Protected routes
	protected := api.Group("", middleware.SessionAuth(sessions))
	protected.Get("/me", accountHandler.Me)

	transact := protected.Group("", middleware.UserOnly(accountSvc))
	RegisterFundingRoutes(transact, fundingHandler)
	RegisterPaymentRoutes(transact, paymentHandler)

	return nil
}
