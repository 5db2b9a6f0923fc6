package api

import (
	"github.com/gofiber/fiber/v3"

	"cachie/internal/engine"
	"cachie/internal/models"
)

// StatsSource reports engine size.
type StatsSource interface {
	Stats() engine.Snapshot
}

// HealthHandler reports liveness and engine size.
type HealthHandler struct {
	src     StatsSource
	backend string
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(src StatsSource, backend string) *HealthHandler {
	return &HealthHandler{src: src, backend: backend}
}

// Health always answers 200 while the process serves requests.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	snap := h.src.Stats()
	return c.JSON(models.HealthResponse{
		Status:          models.StatusOK,
		SearchesLogged:  snap.SearchesLogged,
		IndexedBigrams:  snap.IndexedBigrams,
		QueryLogBackend: h.backend,
	})
}
