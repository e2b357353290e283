package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/account"
	"github.com/coinbank/coinbank/internal/auth"
)

// RegisterAccountRoutes wires registration, login and public reporting
// endpoints.
func RegisterAccountRoutes(r fiber.Router, accounts *account.Handler, sessions *auth.Handler, rateLimiter fiber.Handler) {
	r.Post("/accounts", accounts.Create)
	r.Get("/stats", accounts.Stats)

	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, sessions.Login)
	} else {
		group.Post("/login", sessions.Login)
	}
	group.Post("/logout", sessions.Logout)
}
