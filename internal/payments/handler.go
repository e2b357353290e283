package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/ledger"
)

// Handler exposes the transfer HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// Send transfers funds from the authenticated account to the recipient.
func (h *Handler) Send(c *fiber.Ctx) error {
	sender, _ := c.Locals("account").(string)
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Send(c.UserContext(), sender, req.Recipient, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrSelfTransfer),
			errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"new_balance":  result.NewBalance,
		"completed_at": result.CompletedAt,
	})
}
