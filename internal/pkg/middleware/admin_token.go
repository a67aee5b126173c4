package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/env"
)

// Admin API roles. The token-equality model generalizes to a
// capability-set check: a request holds exactly one role and an
// endpoint names the roles it accepts.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// LocalAdminRole is the ctx local holding the resolved role.
const LocalAdminRole = "ADMIN_ROLE"

// ResolveAdminRole maps the bearer token to a role by constant-time
// comparison against the configured write/read tokens. Returns "" when
// no token matches.
func ResolveAdminRole(c *fiber.Ctx) string {
	token := extractBearerToken(c)
	if token == "" {
		return ""
	}

	if adminToken := env.GetEnv("ADMIN_WRITE_TOKEN", ""); adminToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) == 1 {
		return RoleAdmin
	}
	if viewerToken := env.GetEnv("ADMIN_READ_TOKEN", ""); viewerToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(viewerToken)) == 1 {
		return RoleViewer
	}
	return ""
}

// RequireRole guards a route so only requests holding one of the
// allowed admin roles pass.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := ResolveAdminRole(c)
		if role == "" {
			return apiutil.Fail(c, apiutil.Unauthorized("Unauthorized: missing or invalid admin token"), "")
		}

		for _, a := range allowed {
			if role == a {
				c.Locals(LocalAdminRole, role)
				return c.Next()
			}
		}
		return apiutil.Fail(c, apiutil.Forbidden("Forbidden: insufficient role"), "")
	}
}
