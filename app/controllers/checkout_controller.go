package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fennecpay/fennec/app/models"
	"github.com/fennecpay/fennec/app/repository"
	"github.com/fennecpay/fennec/internal/pkg/apiutil"
)

// getRepositories is swapped in tests.
var getRepositories = repository.GetGlobalRepositories

type checkoutRequest struct {
	ProductPriceID uint64          `json:"product_price_id" validate:"required"`
	CustomerEmail  string          `json:"customer_email" validate:"required,email"`
	CustomerName   string          `json:"customer_name" validate:"max=150"`
	Quantity       *int            `json:"quantity"`
	Metadata       json.RawMessage `json:"metadata"`
}

// HandleCheckout creates a pending order for an active price: the
// customer is upserted by email, the amount fixed to
// unit_amount * quantity, and the order type derived from the price's
// billing type. Payment state changes arrive later via webhook.
func HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to create checkout")
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		return apiutil.Fail(c, apiutil.ValidationError("Field `quantity` must be greater than 0"), "")
	}

	repos := getRepositories()

	price, err := repos.ProductPrice.GetActiveByID(req.ProductPriceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiutil.Fail(c, apiutil.NotFound("Product price not found"), "")
		}
		return apiutil.Fail(c, err, "Failed to create checkout")
	}

	customer, err := repos.Customer.UpsertByEmail(req.CustomerEmail, req.CustomerName)
	if err != nil {
		return apiutil.Fail(c, err, "Failed to create checkout")
	}

	orderType := models.OrderTypeOneTime
	if price.BillingType == models.BillingTypeSubscription {
		orderType = models.OrderTypeSubscriptionInitial
	}

	order := &models.Order{
		CustomerID:     customer.ID,
		ProductID:      price.ProductID,
		ProductPriceID: price.ID,
		Quantity:       quantity,
		Amount:         price.UnitAmount * int64(quantity),
		Currency:       price.Currency,
		OrderType:      orderType,
		Status:         models.OrderStatusPending,
		Metadata:       metadataToString(req.Metadata),
	}
	if err := repos.Order.Create(order); err != nil {
		return apiutil.Fail(c, err, "Failed to create checkout")
	}

	log.Info().
		Uint64("order_id", order.ID).
		Uint64("customer_id", customer.ID).
		Uint64("product_price_id", price.ID).
		Int64("amount", order.Amount).
		Str("order_type", orderType).
		Str("request_id", apiutil.RequestID(c)).
		Msg("checkout order created")

	return apiutil.Ok(c, fiber.Map{
		"order_id":   order.ID,
		"amount":     order.Amount,
		"currency":   order.Currency,
		"status":     order.Status,
		"order_type": order.OrderType,
	})
}
