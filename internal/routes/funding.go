package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/funding"
)

// RegisterFundingRoutes wires deposit, withdrawal and token redemption
// endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/deposit", h.Deposit)
	r.Post("/deposit/check", h.CheckDeposit)
	r.Post("/withdraw", h.Withdraw)
	r.Post("/redeem", h.Redeem)
}
