package apiutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func runHandler(t *testing.T, handler fiber.Handler) (int, envelope) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestOkEnvelope(t *testing.T) {
	status, env := runHandler(t, func(c *fiber.Ctx) error {
		return Ok(c, fiber.Map{"value": 42})
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.OK)
	assert.JSONEq(t, `{"value":42}`, string(env.Data))
	assert.Nil(t, env.Error)
}

func TestOkStatusCreated(t *testing.T) {
	status, env := runHandler(t, func(c *fiber.Ctx) error {
		return OkStatus(c, fiber.StatusCreated, fiber.Map{"id": 1})
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.OK)
}

func TestFail_KnownErrorKeepsCodeAndMessage(t *testing.T) {
	status, env := runHandler(t, func(c *fiber.Ctx) error {
		return Fail(c, NotFound("Product not found"), "")
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNotFound, env.Error.Code)
	assert.Equal(t, "Product not found", env.Error.Message)
	assert.Nil(t, env.Error.Details)
}

func TestFail_DetailsPassThrough(t *testing.T) {
	status, env := runHandler(t, func(c *fiber.Ctx) error {
		return Fail(c, ValidationError("Request body failed validation").
			WithDetails(fiber.Map{"fields": []string{"CustomerEmail"}}), "")
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidationError, env.Error.Code)
	assert.JSONEq(t, `{"fields":["CustomerEmail"]}`, string(env.Error.Details))
}

func TestFail_UnexpectedErrorNeverLeaksCause(t *testing.T) {
	status, env := runHandler(t, func(c *fiber.Ctx) error {
		return Fail(c, errors.New("dial tcp 10.0.0.5:3306: connect: connection refused"), "Failed to create checkout")
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeInternalError, env.Error.Code)
	assert.Equal(t, "Failed to create checkout", env.Error.Message)
	assert.NotContains(t, env.Error.Message, "10.0.0.5")
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{err: BadRequest("x"), wantStatus: fiber.StatusBadRequest, wantCode: CodeBadRequest},
		{err: Unauthorized("x"), wantStatus: fiber.StatusUnauthorized, wantCode: CodeBadRequest},
		{err: Forbidden("x"), wantStatus: fiber.StatusForbidden, wantCode: CodeBadRequest},
		{err: NotFound("x"), wantStatus: fiber.StatusNotFound, wantCode: CodeNotFound},
		{err: ValidationError("x"), wantStatus: fiber.StatusBadRequest, wantCode: CodeValidationError},
		{err: RateLimited("x"), wantStatus: fiber.StatusTooManyRequests, wantCode: CodeBadRequest},
		{err: Internal("x"), wantStatus: fiber.StatusInternalServerError, wantCode: CodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantStatus, tt.err.Status)
		assert.Equal(t, tt.wantCode, tt.err.Code)
	}
}
