package handlers

import (
	"context"
	"time"

	"sfstore/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything that can report whether a backing service answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheStatus reports on the wallet cache.
type CacheStatus interface {
	HealthCheck(ctx context.Context) error
	Stats() cache.PoolStats
}

type HealthHandler struct {
	db    Pinger
	cache CacheStatus
}

func NewHealthHandler(db Pinger, cache CacheStatus) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "redis": "disabled"}

	if err := h.db.PingContext(ctx); err != nil {
		services["database"] = "unreachable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		// a dead redis is reported but does not fail the check
		services["redis"] = "connected"
		if err := h.cache.HealthCheck(ctx); err != nil {
			services["redis"] = "unreachable"
		}
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"version":  "1.0.0",
		"services": services,
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{"enabled": false})
	}
	return c.JSON(fiber.Map{
		"enabled":    true,
		"pool_stats": h.cache.Stats(),
	})
}
