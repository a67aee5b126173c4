package controllers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/database"
	"github.com/fennecpay/fennec/internal/pkg/env"
	"github.com/fennecpay/fennec/internal/pkg/paddle"
)

// webhookProcessor is what the handler needs from the paddle service.
type webhookProcessor interface {
	ProcessEnvelope(ctx context.Context, raw []byte, envelope paddle.Envelope) (*paddle.Result, error)
}

// newWebhookProcessor is swapped in tests.
var newWebhookProcessor = func() webhookProcessor {
	return paddle.NewServiceFromDB(database.GetDB())
}

// HandleWebhook verifies the provider signature over the exact raw body
// before any parsing, then hands the envelope to the webhook service.
// Duplicate deliveries are reported as success so the sender stops
// retrying them.
func HandleWebhook(c *fiber.Ctx) error {
	raw := c.Body()

	err := paddle.VerifySignature(raw, c.Get("Paddle-Signature"), env.GetEnv("PADDLE_WEBHOOK_SECRET", ""))
	if err != nil {
		if errors.Is(err, paddle.ErrSecretMissing) {
			return apiutil.Fail(c, apiutil.Internal("Webhook processing is not configured"), "Webhook processing is not configured")
		}
		return apiutil.Fail(c, apiutil.Unauthorized("Invalid webhook signature"), "")
	}

	var envelope paddle.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apiutil.Fail(c, apiutil.BadRequest("Invalid JSON body"), "")
	}

	result, err := newWebhookProcessor().ProcessEnvelope(c.Context(), raw, envelope)
	if err != nil {
		if errors.Is(err, paddle.ErrInvalidEnvelope) {
			return apiutil.Fail(c, apiutil.ValidationError("Invalid webhook payload: missing event_id/event_type"), "")
		}
		return apiutil.Fail(c, err, "Failed to process webhook")
	}

	if result.Duplicate {
		return apiutil.Ok(c, fiber.Map{
			"success":   true,
			"duplicate": true,
			"event_id":  result.EventID,
		})
	}

	return apiutil.Ok(c, fiber.Map{
		"success":    true,
		"event_id":   result.EventID,
		"event_type": result.EventType,
	})
}
