package account

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service    *Service
	coinName   string
	coinSymbol string
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service, coinName, coinSymbol string) *Handler {
	return &Handler{service: service, coinName: coinName, coinSymbol: coinSymbol}
}

type createRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create registers a new user account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.service.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  fmt.Sprintf("Account created successfully for user: %s", acct.Username),
		"username": acct.Username,
	})
}

// Me returns the authenticated account's profile and balance.
func (h *Handler) Me(c *fiber.Ctx) error {
	username, _ := c.Locals("account").(string)
	if username == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	acct, err := h.service.Get(c.UserContext(), username)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	balance, err := h.service.Balance(c.UserContext(), username)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"username":    acct.Username,
		"role":        acct.Role,
		"balance":     balance,
		"coin_name":   h.coinName,
		"coin_symbol": h.coinSymbol,
		"created_at":  acct.CreatedAt,
	})
}

// Stats reports aggregate account statistics.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"total_accounts":    stats.TotalAccounts,
		"total_assets":      stats.TotalAssets,
		"total_liabilities": stats.TotalLiabilities,
		"coin_name":         h.coinName,
		"coin_symbol":       h.coinSymbol,
	})
}
