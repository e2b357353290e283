package funding

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/ledger"
	"github.com/coinbank/coinbank/internal/mint"
)

// Handler exposes HTTP endpoints for deposits, withdrawals and redemptions.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Deposit issues a Lightning invoice for the authenticated account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	account, _ := c.Locals("account").(string)
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.service.CreateDeposit(c.UserContext(), account, req.Amount)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(DepositResponse{
		QuoteID:   invoice.QuoteID,
		Invoice:   invoice.Invoice,
		ExpiresAt: invoice.ExpiresAt,
	})
}

// CheckDeposit polls the settlement state of a deposit.
func (h *Handler) CheckDeposit(c *fiber.Ctx) error {
	account, _ := c.Locals("account").(string)
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	status, err := h.service.CheckDeposit(c.UserContext(), account, req.QuoteID)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(CheckResponse{
		Paid:       status.Status == StatusPaid,
		Expired:    status.Status == StatusExpired,
		Status:     string(status.Status),
		Amount:     status.Amount,
		NewBalance: status.NewBalance,
	})
}

// Withdraw produces a bearer token debiting the authenticated account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	account, _ := c.Locals("account").(string)
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Withdraw(c.UserContext(), account, req.Amount)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(WithdrawResponse{
		Success:    true,
		Token:      result.Token,
		Amount:     result.Amount,
		NewBalance: result.NewBalance,
	})
}

// Redeem credits a bearer token to the authenticated account.
func (h *Handler) Redeem(c *fiber.Ctx) error {
	account, _ := c.Locals("account").(string)
	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Redeem(c.UserContext(), account, req.Token)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(RedeemResponse{
		Success:    true,
		Amount:     result.Amount,
		NewBalance: result.NewBalance,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, mint.ErrInvalidToken):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateQuote):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrQuoteNotFound), errors.Is(err, ledger.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, mint.ErrUnavailable), errors.Is(err, mint.ErrInsufficientReserves):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
