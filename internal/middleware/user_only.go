package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/account"
)

// UserOnly blocks the bank custody account from initiating transactions.
// The bank balance moves only as the mirrored side of user deposits and
// withdrawals.
func UserOnly(accounts *account.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals("account").(string)
		acct, err := accounts.Get(c.UserContext(), username)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}
		if acct.IsBank() {
			return fiber.NewError(http.StatusForbidden, "transactions are disabled for the bank account")
		}
		return c.Next()
	}
}
