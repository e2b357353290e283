package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinbank/coinbank/internal/mint"
)

// RegisterMintRoutes exposes read-only mint metadata.
func RegisterMintRoutes(r fiber.Router, info *mint.InfoClient) {
	r.Get("/mint/info", func(c *fiber.Ctx) error {
		meta, err := info.Info(c.UserContext())
		if err != nil {
			if errors.Is(err, mint.ErrUnavailable) {
				return fiber.NewError(http.StatusServiceUnavailable, "mint unavailable")
			}
			return fiber.NewError(http.StatusBadGateway, "mint info request failed")
		}
		return c.JSON(meta)
	})
}
