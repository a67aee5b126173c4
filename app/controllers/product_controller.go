package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fennecpay/fennec/app/models"
	"github.com/fennecpay/fennec/app/repository"
	"github.com/fennecpay/fennec/internal/pkg/apiutil"
)

type productCreateRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Description string          `json:"description"`
	Active      *bool           `json:"active"`
	Metadata    json.RawMessage `json:"metadata"`
}

type productUpdateRequest struct {
	ID          uint64          `json:"id" validate:"required"`
	Name        *string         `json:"name"`
	SKU         *string         `json:"sku"`
	Description *string         `json:"description"`
	Active      *bool           `json:"active"`
	Metadata    json.RawMessage `json:"metadata"`
}

type idRequest struct {
	ID uint64 `json:"id" validate:"required"`
}

// HandleListProducts returns the catalog; inactive products only show
// up with ?all=true.
func HandleListProducts(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"

	products, err := repository.GetGlobalRepositories().Product.List(activeOnly)
	if err != nil {
		return apiutil.Fail(c, err, "Failed to fetch products")
	}
	return apiutil.Ok(c, fiber.Map{"products": products})
}

// HandleCreateProduct creates a product (admin role).
func HandleCreateProduct(c *fiber.Ctx) error {
	var req productCreateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to create product")
	}

	product := &models.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Active:      req.Active == nil || *req.Active,
		Metadata:    metadataToString(req.Metadata),
	}
	if err := repository.GetGlobalRepositories().Product.Create(product); err != nil {
		return apiutil.Fail(c, err, "Failed to create product")
	}
	return apiutil.OkStatus(c, fiber.StatusCreated, fiber.Map{"product": product})
}

// HandleUpdateProduct applies a partial update (admin role).
func HandleUpdateProduct(c *fiber.Ctx) error {
	var req productUpdateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to update product")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
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

	product, err := repository.GetGlobalRepositories().Product.Updates(req.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiutil.Fail(c, apiutil.NotFound("Product not found"), "")
		}
		return apiutil.Fail(c, err, "Failed to update product")
	}
	return apiutil.Ok(c, fiber.Map{"product": product})
}

// HandleDeleteProduct removes a product (admin role).
func HandleDeleteProduct(c *fiber.Ctx) error {
	var req idRequest
	if err := parseAndValidate(c, &req); err != nil {
		return apiutil.Fail(c, err, "Failed to delete product")
	}

	if err := repository.GetGlobalRepositories().Product.Delete(req.ID); err != nil {
		return apiutil.Fail(c, err, "Failed to delete product")
	}
	return apiutil.Ok(c, fiber.Map{"success": true})
}

func parseQueryID(c *fiber.Ctx, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apiutil.ValidationError("Query parameter `" + name + "` must be a valid id")
	}
	return &id, nil
}
