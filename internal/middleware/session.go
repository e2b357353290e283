package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/auth"
)

// SessionAuth resolves the session cookie into the account identity and
// stores it under the "account" local. Requests without a valid session are
// rejected.
func SessionAuth(sessions *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.SessionCookie)
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}

		account, err := sessions.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				return fiber.NewError(http.StatusUnauthorized, "session expired")
			}
			return fiber.NewError(http.StatusInternalServerError, "session lookup failed")
		}

		c.Locals("account", account)
		return c.Next()
	}
}
