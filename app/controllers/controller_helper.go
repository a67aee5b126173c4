package controllers

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
)

var validate = validator.New()

// parseAndValidate decodes the JSON request body into out and runs
// struct validation. Malformed JSON is a bad_request; a failed
// constraint is a validation_error naming the offending fields.
func parseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return apiutil.BadRequest("Invalid JSON body")
	}

	if err := validate.Struct(out); err != nil {
		var invalid []string
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				invalid = append(invalid, fe.Field())
			}
		}
		return apiutil.ValidationError("Request body failed validation").WithDetails(fiber.Map{"fields": invalid})
	}
	return nil
}

// metadataToString keeps client-supplied metadata as its raw JSON text.
func metadataToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
