package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/env"
)

// LocalServiceToken is the ctx local holding the authenticated token.
const LocalServiceToken = "SERVICE_TOKEN"

// ServiceTokenMiddleware authenticates service-to-service calls with a
// bearer token compared in constant time against the secret configured
// under envKey. A missing secret is a server fault, not a client one.
func ServiceTokenMiddleware(envKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		configured := env.GetEnv(envKey, "")
		if configured == "" {
			return apiutil.Fail(c, apiutil.Internal("Service authentication is not configured"), "Service authentication is not configured")
		}

		provided := extractBearerToken(c)
		if provided == "" {
			return apiutil.Fail(c, apiutil.Unauthorized("Missing bearer token"), "")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) != 1 {
			return apiutil.Fail(c, apiutil.Forbidden("Forbidden: invalid service token"), "")
		}

		c.Locals(LocalServiceToken, provided)
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
