// Package main is the entry point for the store API. It wires configuration,
// storage, services and the HTTP server, and shuts them down in order.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sfstore/internal/config"
	"sfstore/internal/handlers"
	"sfstore/internal/jobs"
	"sfstore/internal/metrics"
	"sfstore/internal/middleware"
	"sfstore/internal/repositories"
	"sfstore/internal/repositories/cache"
	"sfstore/internal/routes"
	"sfstore/internal/services/catalog"
	"sfstore/internal/services/eventtoken"
	"sfstore/internal/services/inventory"
	"sfstore/internal/services/purchase"
	"sfstore/internal/services/user"
	"sfstore/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.AppLogLevel)

	db, err := repositories.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	store := repositories.NewStore(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	var (
		walletCache wallet.Cache
		cacheStatus handlers.CacheStatus
		cacheSvc    *cache.CacheService
	)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	redisClient, err := cache.Dial(pingCtx, cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cancelPing()
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, wallet cache disabled")
	} else {
		cacheSvc = cache.NewCacheService(redisClient, cfg.CacheTTL)
		walletCache = cacheSvc
		cacheStatus = cacheSvc
		log.Info("Redis connected")
	}

	walletService := wallet.NewService(store, walletCache, wallet.Config{
		DefaultDailyLimit: cfg.WalletDefaultDailyLimit,
		MaxHistoryLimit:   wallet.DefaultMaxHistory,
	}, collector)
	eventTokenService := eventtoken.NewService(store, collector, nil)
	catalogService := catalog.NewService(store, nil)
	purchaseService := purchase.NewService(store, walletCache, collector, nil)
	inventoryService := inventory.NewService(store, collector, nil)
	userService := user.NewService(store, user.Config{DefaultDailyLimit: cfg.WalletDefaultDailyLimit})

	app := fiber.New(fiber.Config{
		AppName:      "sfstore",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.RequestLogger(collector))

	routes.SetupRoutes(app, routes.Handlers{
		Wallet:     handlers.NewWalletHandler(walletService),
		EventToken: handlers.NewEventTokenHandler(eventTokenService),
		Product:    handlers.NewProductHandler(catalogService),
		Purchase:   handlers.NewPurchaseHandler(purchaseService),
		Inventory:  handlers.NewInventoryHandler(inventoryService),
		User:       handlers.NewUserHandler(userService),
		Admin:      handlers.NewAdminHandler(walletService, userService),
		Health:     handlers.NewHealthHandler(sqlDB, cacheStatus),
	}, routes.Options{
		JWTSecret:       cfg.Secret(),
		Gatherer:        registry,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	scheduler := jobs.NewScheduler(walletService, collector)
	if cfg.DailyResetEnabled {
		if err := scheduler.ScheduleDailyReset(cfg.DailyResetSchedule); err != nil {
			log.Fatalf("Invalid DAILY_RESET_SCHEDULE %q: %v", cfg.DailyResetSchedule, err)
		}
		scheduler.Start()
		log.WithField("schedule", cfg.DailyResetSchedule).Info("Daily reset job scheduled")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.WithField("port", cfg.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	scheduler.Stop(ctx)
	if cacheSvc != nil {
		if err := cacheSvc.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis connection")
		}
	}
	if err := repositories.Close(db); err != nil {
		log.WithError(err).Warn("Failed to close database connection")
	}
}
