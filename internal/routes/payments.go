package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/payments"
)

// RegisterPaymentRoutes wires account-to-account transfer endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/send", h.Send)
}
