package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fennecpay/fennec/app/models"
	"github.com/fennecpay/fennec/app/repository"
	"github.com/fennecpay/fennec/internal/pkg/apiutil"
)

type priceCreateRequest struct {
	ProductID     uint64          `json:"product_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	BillingType   string          `json:"billing_type" validate:"required,oneof=one_time subscription"`
	UnitAmount    *int64          `json:"unit_amount" validate:"required"`
	Currency      string          `json:"currency" validate:"omitempty,len=3"`
	Interval      string          `json:"interval"`
	IntervalCount *int            `json:"interval_count"`
	TrialDays     *int            `json:"trial_days"`
	Active        *bool           `json:"active"`
	Metadata      json.RawMessage `json:"metadata"`
}

type priceUpdateRequest struct {
	ID         uint64          `json:"id" validate:"required"`
	Name       *string         `json:"name"`
	UnitAmount *int64          `json:"unit_amount"`
	Currency   *string         `json:"currency" validate:"omitempty,len=3"`
	TrialDays  *int            `json:"trial_days"`
	Active     *bool           `json:"active"`
	Metadata   json.RawMessage `json:"metadata"`
}

// HandleListPrices returns prices; inactive ones only with ?all=true,
// optionally narrowed by ?product_id=.
func HandleListPrices(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"
	productID, err := parseQueryID(c, "product_id")
	if err != nil {
		return apiutil.Fail(c, err, "Failed to fetch product prices")
	}

	prices, err := repository.GetGlobalRepositories().ProductPrice.List(activeOnly, productID)
	if err != nil {
		return apiutil.Fail(c, err, "Failed to fetch product prices")
	}
	return apiutil.Ok(c, fiber.Map{"prices": prices})
}

// HandleCreatePrice creates a price for a product (admin role).
// Subscription prices default to a monthly interval.
func HandleCreatePrice(c *fiber.Ctx) error {
	var req priceCreateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to create product price")
	}
	if *req.UnitAmount < 0 {
		return apiutil.Fail(c, apiutil.ValidationError("Field `unit_amount` must not be negative"), "")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Product.GetByID(req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiutil.Fail(c, apiutil.NotFound("Product not found"), "")
		}
		return apiutil.Fail(c, err, "Failed to create product price")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	price := &models.ProductPrice{
		ProductID:   req.ProductID,
		Name:        req.Name,
		BillingType: req.BillingType,
		UnitAmount:  *req.UnitAmount,
		Currency:    currency,
		Active:      req.Active == nil || *req.Active,
		Metadata:    metadataToString(req.Metadata),
	}
	if req.BillingType == models.BillingTypeSubscription {
		price.Interval = "month"
		if req.Interval != "" {
			price.Interval = req.Interval
		}
		price.IntervalCount = 1
		if req.IntervalCount != nil {
			price.IntervalCount = *req.IntervalCount
		}
		if req.TrialDays != nil {
			price.TrialDays = *req.TrialDays
		}
	}

	if err := repos.ProductPrice.Create(price); err != nil {
		return apiutil.Fail(c, err, "Failed to create product price")
	}
	return apiutil.OkStatus(c, fiber.StatusCreated, fiber.Map{"price": price})
}

// HandleUpdatePrice applies a partial update (admin role). Billing
// terms other than the amount are fixed once created; deactivate the
// price and create a new one instead.
func HandleUpdatePrice(c *fiber.Ctx) error {
	var req priceUpdateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to update product price")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.UnitAmount != nil {
		updates["unit_amount"] = *req.UnitAmount
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.TrialDays != nil {
		updates["trial_days"] = *req.TrialDays
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(req.Metadata) > 0 {
		updates["metadata"] = string(req.Metadata)
	}
	if len(updates) == 0 {
		return apiutil.Fail(c, apiutil.ValidationError("No updates provided"), "")
	}

	price, err := repository.GetGlobalRepositories().ProductPrice.Updates(req.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiutil.Fail(c, apiutil.NotFound("Product price not found"), "")
		}
		return apiutil.Fail(c, err, "Failed to update product price")
	}
	return apiutil.Ok(c, fiber.Map{"price": price})
}

// HandleDeletePrice removes a price row (admin role).
func HandleDeletePrice(c *fiber.Ctx) error {
	var req idRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to delete product price")
	}

	if err := repository.GetGlobalRepositories().ProductPrice.Delete(req.ID); err != nil {
		return apiutil.Fail(c, err, "Failed to delete product price")
	}
	return apiutil.Ok(c, fiber.Map{"success": true})
}
