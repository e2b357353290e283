package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"
)

type cachedReply struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response for repeated unsafe requests
// carrying the same Idempotency-Key header. The key is reserved with SetNX
// while the first request is in flight, so a concurrent duplicate conflicts
// instead of executing twice. The header is optional; requests without it
// pass through.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return c.Next()
		}
		cacheKey := idempotencyPrefix + key

		cached, err := cache.Get(c.UserContext(), cacheKey).Result()
		switch {
		case err == nil:
			if cached == inProgressMarker {
				return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
			}
			var reply cachedReply
			if err := json.Unmarshal([]byte(cached), &reply); err != nil {
				logger.Warn("decode stored idempotent response", "key", key, "error", err)
				return fiber.NewError(fiber.StatusConflict, "duplicate request")
			}
			c.Set(fiber.HeaderContentType, reply.ContentType)
			return c.Status(reply.Status).Send(reply.Body)
		case !errors.Is(err, redis.Nil):
			logger.Error("idempotency lookup failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		if err := cache.SetNX(c.UserContext(), cacheKey, inProgressMarker, ttl).Err(); err != nil {
			logger.Error("idempotency reservation failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}

		if err := c.Next(); err != nil {
			cache.Del(c.UserContext(), cacheKey) // best effort cleanup
			return err
		}

		reply := cachedReply{
			Status:      c.Response().StatusCode(),
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		payload, err := json.Marshal(reply)
		if err != nil {
			logger.Error("encode idempotent response", "key", key, "error", err)
			cache.Del(c.UserContext(), cacheKey)
			return nil
		}
		if err := cache.Set(c.UserContext(), cacheKey, payload, ttl).Err(); err != nil {
			logger.Error("persist idempotent response", "key", key, "error", err)
			cache.Del(c.UserContext(), cacheKey)
		}

		return nil
	}
}
