package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fennecpay/fennec/app/repository"
	"github.com/fennecpay/fennec/internal/pkg/cache"
	"github.com/fennecpay/fennec/internal/pkg/database"
	"github.com/fennecpay/fennec/internal/pkg/env"
	"github.com/fennecpay/fennec/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal().Err(err).Msg("server stopped")
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	setupLogging()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	cache.SetupCache()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:      "fennec",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// request ids, recovery and request logging
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}), recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
