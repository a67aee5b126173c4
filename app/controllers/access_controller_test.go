package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennecpay/fennec/internal/pkg/entitlements"
)

type stubEvaluator struct {
	decision *entitlements.Decision
	err      error

	gotEmail  string
	gotFilter entitlements.Filter
}

func (s *stubEvaluator) Evaluate(ctx context.Context, email string, filter entitlements.Filter) (*entitlements.Decision, error) {
	s.gotEmail = email
	s.gotFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.decision, nil
}

func withStubEvaluator(t *testing.T, stub *stubEvaluator) {
	t.Helper()
	previous := newAccessEvaluator
	newAccessEvaluator = func() accessEvaluator { return stub }
	t.Cleanup(func() { newAccessEvaluator = previous })
}

func postAccess(t *testing.T, body string) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Post("/api/access", HandleAccess)

	req := httptest.NewRequest("POST", "/api/access", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHandleAccess_GrantsAccess(t *testing.T) {
	stub := &stubEvaluator{decision: &entitlements.Decision{
		HasAccess:     true,
		Reason:        entitlements.ReasonMatchedPaidState,
		CustomerEmail: "sub@example.com",
	}}
	withStubEvaluator(t, stub)

	status, decoded := postAccess(t, `{"customer_email":"sub@example.com","product_id":5}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, decoded["ok"])

	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_access"])
	assert.Equal(t, entitlements.ReasonMatchedPaidState, data["reason"])

	assert.Equal(t, "sub@example.com", stub.gotEmail)
	require.NotNil(t, stub.gotFilter.ProductID)
	assert.Equal(t, uint64(5), *stub.gotFilter.ProductID)
	assert.Nil(t, stub.gotFilter.ProductPriceID)
}

func TestHandleAccess_CustomerNotFound(t *testing.T) {
	stub := &stubEvaluator{decision: &entitlements.Decision{
		HasAccess:     false,
		Reason:        entitlements.ReasonCustomerNotFound,
		CustomerEmail: "nobody@example.com",
	}}
	withStubEvaluator(t, stub)

	status, decoded := postAccess(t, `{"customer_email":"nobody@example.com"}`)
	assert.Equal(t, fiber.StatusOK, status)
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, false, data["has_access"])
	assert.Equal(t, entitlements.ReasonCustomerNotFound, data["reason"])
}

func TestHandleAccess_InvalidEmail(t *testing.T) {
	stub := &stubEvaluator{}
	withStubEvaluator(t, stub)

	status, decoded := postAccess(t, `{"customer_email":"not-an-email"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody := decoded["error"].(map[string]interface{})
	assert.Equal(t, "validation_error", errBody["code"])
	assert.Empty(t, stub.gotEmail, "evaluator must not run on invalid input")
}

func TestHandleAccess_MalformedJSON(t *testing.T) {
	withStubEvaluator(t, &stubEvaluator{})

	status, decoded := postAccess(t, `{`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody := decoded["error"].(map[string]interface{})
	assert.Equal(t, "bad_request", errBody["code"])
}
