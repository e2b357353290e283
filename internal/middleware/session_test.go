package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/coinbank/coinbank/internal/auth"
)

func setupSessionApp(t *testing.T) (*fiber.App, *auth.Service) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	sessions := auth.NewService(cache, time.Hour)
	app := fiber.New()
	app.Get("/me", SessionAuth(sessions), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"account": c.Locals("account")})
	})

	return app, sessions
}

func TestSessionAuthRejectsMissingCookie(t *testing.T) {
	app, _ := setupSessionApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestSessionAuthRejectsUnknownToken(t *testing.T) {
	app, _ := setupSessionApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "bogus"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestSessionAuthAcceptsValidSession(t *testing.T) {
	app, sessions := setupSessionApp(t)

	session, err := sessions.Create(context.Background(), "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: session.Token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d, got %d", fiber.StatusOK, resp.StatusCode)
	}
}
