package router

import (
	"runtime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/fennecpay/fennec/app/controllers"
	"github.com/fennecpay/fennec/internal/pkg/cache"
	"github.com/fennecpay/fennec/internal/pkg/env"
	"github.com/fennecpay/fennec/internal/pkg/middleware"
	"github.com/fennecpay/fennec/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        envInt("API_RATE_LIMIT_PER_MIN", 300),
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))

	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})
	api.Get("/health", controllers.HandleHealth)

	api.Post("/checkout", controllers.HandleCheckout)
	api.Post("/webhook", controllers.HandleWebhook)

	accessLimiter := ratelimit.New(
		envInt("ACCESS_API_RATE_LIMIT_PER_MIN", 120),
		time.Minute,
		ratelimit.WithRedis(cache.GetClient()),
	)
	api.Post("/access",
		middleware.ServiceTokenMiddleware("ACCESS_API_TOKEN"),
		middleware.RateLimitPerTokenIP(accessLimiter),
		controllers.HandleAccess,
	)

	products := api.Group("/products")
	products.Get("/", middleware.RequireRole(middleware.RoleViewer, middleware.RoleAdmin), controllers.HandleListProducts)
	products.Post("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleCreateProduct)
	products.Patch("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleUpdateProduct)
	products.Delete("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleDeleteProduct)

	prices := api.Group("/product-prices")
	prices.Get("/", middleware.RequireRole(middleware.RoleViewer, middleware.RoleAdmin), controllers.HandleListPrices)
	prices.Post("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleCreatePrice)
	prices.Patch("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleUpdatePrice)
	prices.Delete("/", middleware.RequireRole(middleware.RoleAdmin), controllers.HandleDeletePrice)
}

// newLimiterStorage backs the group limiter with Redis so the window
// holds across instances.
func newLimiterStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 0,
		PoolSize: 10 * runtime.GOMAXPROCS(0),
	})
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(env.GetEnv(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
