// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"sfstore/internal/handlers"
	"sfstore/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the route table dispatches to.
type Handlers struct {
	Wallet     *handlers.WalletHandler
	EventToken *handlers.EventTokenHandler
	Product    *handlers.ProductHandler
	Purchase   *handlers.PurchaseHandler
	Inventory  *handlers.InventoryHandler
	User       *handlers.UserHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	JWTSecret       []byte
	Gatherer        prometheus.Gatherer
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers, opts Options) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SF store API: virtual product store with wallet system",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", h.Health.HealthCheck)
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	mutations := rateLimit(opts.RateLimitMax, opts.RateLimitWindow)

	users := api.Group("/users")
	users.Post("/", mutations, h.User.Signup)
	users.Get("/:id", h.User.Get)

	setupWalletRoutes(api, h, mutations)
	setupStoreRoutes(api, h, mutations)

	auth := middleware.NewAuthMiddleware(opts.JWTSecret)
	admin := api.Group("/admin", auth.Handler, middleware.AdminAuthMiddleware)
	admin.Post("/wallet/grant", h.Admin.Grant)
	admin.Post("/wallet/event-tokens/add", h.EventToken.Add)
	admin.Get("/users", h.User.List)
	admin.Get("/wallet/:user_id/reconcile", h.Admin.Reconcile)
	admin.Post("/products", h.Product.Create)
	admin.Post("/purchases/:id/refund", h.Purchase.Refund)
	admin.Delete("/users/:id", h.Admin.DeactivateUser)
	admin.Get("/cache-stats", h.Health.CacheStats)
}

func setupWalletRoutes(api fiber.Router, h Handlers, mutations fiber.Handler) {
	wallet := api.Group("/wallet")
	wallet.Post("/earn", mutations, h.Wallet.Earn)
	wallet.Post("/spend", mutations, h.Wallet.Spend)
	wallet.Post("/refund", mutations, h.Wallet.Refund)
	wallet.Post("/achievement", mutations, h.Wallet.AwardAchievement)
	wallet.Post("/event-tokens/spend", mutations, h.EventToken.Spend)

	wallet.Get("/:user_id", h.Wallet.GetWallet)
	wallet.Get("/:user_id/history", h.Wallet.GetHistory)
	wallet.Get("/:user_id/event-tokens", h.EventToken.List)
	wallet.Post("/:user_id/reset-daily", h.Wallet.ResetDaily)
}

func setupStoreRoutes(api fiber.Router, h Handlers, mutations fiber.Handler) {
	products := api.Group("/products")
	products.Get("/", h.Product.List)
	products.Get("/:id", h.Product.Get)
	products.Post("/:id/purchase", mutations, h.Purchase.Purchase)

	api.Get("/purchases/:user_id", h.Purchase.List)

	inventory := api.Group("/inventory/:user_id")
	inventory.Get("/", h.Inventory.List)
	inventory.Get("/equipped", h.Inventory.ListEquipped)
	inventory.Get("/items/:item_id", h.Inventory.Get)
	inventory.Post("/items/:item_id/equip", h.Inventory.Equip)
	inventory.Post("/items/:item_id/unequip", h.Inventory.Unequip)
	inventory.Post("/items/:item_id/use", h.Inventory.Use)
}

func rateLimit(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	})
}
