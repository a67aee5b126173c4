package apiutil

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Error codes exposed in the response envelope.
const (
	CodeBadRequest      = "bad_request"
	CodeValidationError = "validation_error"
	CodeNotFound        = "not_found"
	CodeInternalError   = "internal_error"
)

// Error is a request-scoped failure carrying the HTTP status and the
// envelope error code. Internal errors never expose their cause text.
type Error struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an API error with an explicit status and code.
func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithDetails attaches structured detail data to the error envelope.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func BadRequest(message string) *Error {
	return NewError(fiber.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(message string) *Error {
	return NewError(fiber.StatusUnauthorized, CodeBadRequest, message)
}

func Forbidden(message string) *Error {
	return NewError(fiber.StatusForbidden, CodeBadRequest, message)
}

func NotFound(message string) *Error {
	return NewError(fiber.StatusNotFound, CodeNotFound, message)
}

func ValidationError(message string) *Error {
	return NewError(fiber.StatusBadRequest, CodeValidationError, message)
}

func RateLimited(message string) *Error {
	return NewError(fiber.StatusTooManyRequests, CodeBadRequest, message)
}

func Internal(message string) *Error {
	return NewError(fiber.StatusInternalServerError, CodeInternalError, message)
}

// Ok writes the uniform success envelope.
func Ok(c *fiber.Ctx, data interface{}) error {
	return OkStatus(c, fiber.StatusOK, data)
}

// OkStatus writes the uniform success envelope with a custom status.
func OkStatus(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"ok": true, "data": data})
}

// Fail writes the uniform error envelope. Expected failures keep their
// code and message; anything else is logged in full and surfaces as a
// generic internal_error so no internal text leaks to clients.
func Fail(c *fiber.Ctx, err error, fallbackMessage string) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		log.Warn().
			Str("route", c.Path()).
			Str("code", apiErr.Code).
			Int("status", apiErr.Status).
			Str("request_id", RequestID(c)).
			Msg(apiErr.Message)
		body := fiber.Map{"code": apiErr.Code, "message": apiErr.Message}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		return c.Status(apiErr.Status).JSON(fiber.Map{"ok": false, "error": body})
	}

	log.Error().
		Err(err).
		Str("route", c.Path()).
		Str("request_id", RequestID(c)).
		Msg(fallbackMessage)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok": false,
		"error": fiber.Map{
			"code":    CodeInternalError,
			"message": fallbackMessage,
		},
	})
}

// RequestID returns the request id assigned by the requestid middleware.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
