package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/database"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/pkg/response"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, cache *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports degraded dependencies without failing the endpoint; only a
// dead database turns the response into a 503.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := fiber.StatusOK
	if h.db == nil || h.db.Ping(ctx) != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	cacheStatus := "ok"
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		cacheStatus = "bypassed"
	}

	msg := "ok"
	if status != fiber.StatusOK {
		msg = "degraded"
	}
	return response.JSON(c, status, fiber.Map{
		"message":  msg,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
