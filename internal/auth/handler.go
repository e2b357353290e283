package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/account"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "coinbank_session"

// Handler exposes login and logout endpoints.
type Handler struct {
	accounts   *account.Service
	sessions   *Service
	coinName   string
	coinSymbol string
}

// NewHandler builds an auth HTTP handler.
func NewHandler(accounts *account.Service, sessions *Service, coinName, coinSymbol string) *Handler {
	return &Handler{accounts: accounts, sessions: sessions, coinName: coinName, coinSymbol: coinSymbol}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the account and opens a cookie-backed session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.accounts.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	session, err := h.sessions.Create(c.UserContext(), acct.Username)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	balance, err := h.accounts.Balance(c.UserContext(), acct.Username)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":     fmt.Sprintf("Login successful for user: %s", acct.Username),
		"username":    acct.Username,
		"role":        acct.Role,
		"balance":     balance,
		"coin_name":   h.coinName,
		"coin_symbol": h.coinSymbol,
	})
}

// Logout destroys the current session and clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token != "" {
		if err := h.sessions.Destroy(c.UserContext(), token); err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}
