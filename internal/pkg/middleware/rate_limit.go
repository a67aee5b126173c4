package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/ratelimit"
)

// RateLimitPerTokenIP applies a fixed-window ceiling keyed by the
// authenticated service token and the client IP. Must run after
// ServiceTokenMiddleware.
func RateLimitPerTokenIP(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(LocalServiceToken).(string)
		key := fmt.Sprintf("access:%s:%s", token, ClientIP(c))
		if !limiter.Allow(c.Context(), key) {
			return apiutil.Fail(c, apiutil.RateLimited("Rate limit exceeded"), "")
		}
		return c.Next()
	}
}

// ClientIP prefers the first X-Forwarded-For hop over the socket peer.
func ClientIP(c *fiber.Ctx) string {
	forwarded := strings.TrimSpace(c.Get(fiber.HeaderXForwardedFor))
	if forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		if ip := strings.TrimSpace(forwarded); ip != "" {
			return ip
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
