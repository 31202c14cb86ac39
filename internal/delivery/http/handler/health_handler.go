package handler

import (
	"context"
	"time"

	"acms/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	stats func() map[string]any
}

// NewHealthHandler reports database reachability. stats may be nil.
func NewHealthHandler(db Pinger, stats func() map[string]any) *HealthHandler {
	return &HealthHandler{db: db, stats: stats}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := map[string]any{"database": "up"}
	if h.stats != nil {
		data["pool"] = h.stats()
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			data["database"] = "down"
			return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, data)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
