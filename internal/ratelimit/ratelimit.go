package ratelimit

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter caps attempts per client IP inside a rolling window. The
// counter lives in Redis so the limit holds across instances. A nil client or
// a Redis outage disables limiting rather than blocking logins.
func LoginLimiter(client *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:login:%s", c.IP())
		ctx := c.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[WARN] rate limiter unavailable: %v", err)
			return c.Next()
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			ttl, err := client.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"message":     "Too many login attempts. Please try again later.",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return c.Next()
	}
}
