package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a rate limiter keyed per account. Requests without an
// authenticated account are bucketed by client IP instead.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := c.IP()
			if id, ok := c.Locals("account_id").(string); ok && id != "" {
				key = id
			}
			return fmt.Sprintf("%s:%s", identifier, key)
		},
	})
}
