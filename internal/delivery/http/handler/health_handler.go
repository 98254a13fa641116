package handler

import (
	"context"
	"time"

	"aegis/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the database as required and the cache as optional:
// a down cache only degrades the status string.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{"database": "up", "cache": "up"}
	status := fiber.StatusOK
	msg := response.MessageOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		data["database"] = "down"
		status = fiber.StatusServiceUnavailable
		msg = "database unavailable"
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		data["cache"] = "down"
		if status == fiber.StatusOK {
			msg = "degraded"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, msg, data)
	}
	return response.Success(c, status, msg, data)
}
