package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fennecpay/fennec/internal/pkg/apiutil"
	"github.com/fennecpay/fennec/internal/pkg/cache"
	"github.com/fennecpay/fennec/internal/pkg/database"
)

// HandleHealth reports liveness plus the state of the database and the
// cache connection. The endpoint stays 200 as long as the process can
// serve; degraded dependencies show up in the payload.
func HandleHealth(c *fiber.Ctx) error {
	dbState := "ok"
	if db := database.GetDB(); db == nil {
		dbState = "unavailable"
	} else if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		dbState = "unavailable"
	}

	cacheState := "ok"
	if err := cache.Ping(); err != nil {
		cacheState = "unavailable"
	}

	return apiutil.Ok(c, fiber.Map{
		"status":   "ok",
		"database": dbState,
		"cache":    cacheState,
	})
}
