package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp() *fiber.App {
	app := fiber.New()
	app.Get("/read", RequireRole(RoleAdmin, RoleViewer), func(c *fiber.Ctx) error {
		return c.SendString("read ok")
	})
	app.Post("/write", RequireRole(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("write ok")
	})
	return app
}

func TestRequireRole_AdminCanReadAndWrite(t *testing.T) {
	t.Setenv("ADMIN_WRITE_TOKEN", "write-token")
	t.Setenv("ADMIN_READ_TOKEN", "read-token")
	app := newAdminApp()

	for _, target := range []struct {
		method string
		path   string
	}{
		{method: "GET", path: "/read"},
		{method: "POST", path: "/write"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		req.Header.Set("Authorization", "Bearer write-token")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "%s %s", target.method, target.path)
	}
}

func TestRequireRole_ViewerCanReadButNotWrite(t *testing.T) {
	t.Setenv("ADMIN_WRITE_TOKEN", "write-token")
	t.Setenv("ADMIN_READ_TOKEN", "read-token")
	app := newAdminApp()

	readReq := httptest.NewRequest("GET", "/read", nil)
	readReq.Header.Set("Authorization", "Bearer read-token")
	resp, err := app.Test(readReq, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	writeReq := httptest.NewRequest("POST", "/write", nil)
	writeReq.Header.Set("Authorization", "Bearer read-token")
	resp, err = app.Test(writeReq, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_UnknownTokenRejected(t *testing.T) {
	t.Setenv("ADMIN_WRITE_TOKEN", "write-token")
	t.Setenv("ADMIN_READ_TOKEN", "read-token")
	app := newAdminApp()

	req := httptest.NewRequest("GET", "/read", nil)
	req.Header.Set("Authorization", "Bearer stolen-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_MissingTokenRejected(t *testing.T) {
	t.Setenv("ADMIN_WRITE_TOKEN", "write-token")
	app := newAdminApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/read", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestResolveAdminRole_UnconfiguredTokensMatchNothing(t *testing.T) {
	// empty configured tokens must never match an empty or any bearer
	app := fiber.New()
	var role string
	app.Get("/", func(c *fiber.Ctx) error {
		role = ResolveAdminRole(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "", role)
}
