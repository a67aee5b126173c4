package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/database"
	"github.com/fennecpay/fennec/internal/pkg/entitlements"
)

type accessRequest struct {
	CustomerEmail  string  `json:"customer_email" validate:"required,email"`
	ProductID      *uint64 `json:"product_id"`
	ProductPriceID *uint64 `json:"product_price_id"`
}

// accessEvaluator is what the handler needs from the entitlements service.
type accessEvaluator interface {
	Evaluate(ctx context.Context, email string, filter entitlements.Filter) (*entitlements.Decision, error)
}

// newAccessEvaluator is swapped in tests.
var newAccessEvaluator = func() accessEvaluator {
	return entitlements.NewServiceFromDB(database.GetDB())
}

// HandleAccess answers whether a customer currently holds a paid or
// active entitlement, optionally narrowed to a product or price. This
// route sits behind the service token and rate limit middleware.
func HandleAccess(c *fiber.Ctx) error {
	var req accessRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to evaluate access")
	}

	decision, err := newAccessEvaluator().Evaluate(c.Context(), req.CustomerEmail, entitlements.Filter{
		ProductID:      req.ProductID,
		ProductPriceID: req.ProductPriceID,
	})
	if err != nil {
		return apiutil.Fail(c, err, "Failed to evaluate access")
	}

	log.Info().
		Str("customer_email", decision.CustomerEmail).
		Bool("has_access", decision.HasAccess).
		Str("reason", decision.Reason).
		Str("request_id", apiutil.RequestID(c)).
		Msg("evaluated access state")

	return apiutil.Ok(c, decision)
}
