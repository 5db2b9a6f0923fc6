package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cachie/internal/metrics"
	"cachie/internal/middleware"
	"cachie/internal/models"
)

// SearchRecorder records a search into the analytics engine.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, query, clientID, sessionID string) (*models.ProcessingStatus, error)
}

// SearchHandler handles search recording via JSON API.
type SearchHandler struct {
	engine SearchRecorder
	logger *slog.Logger
}

// NewSearchHandler creates a new API search handler.
func NewSearchHandler(engine SearchRecorder, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{engine: engine, logger: logger}
}

// Record stores one search. Must run after middleware.ValidateSearch.
func (h *SearchHandler) Record(c fiber.Ctx) error {
	req, ok := middleware.SearchRequestFrom(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	h.logger.Info("POST /search",
		"client_id", req.ClientID,
		"session_id", req.SessionID,
		"search_query", req.SearchQuery,
	)

	status, err := h.engine.RecordSearch(c.Context(), req.SearchQuery, req.ClientID, req.SessionID)
	if err != nil {
		h.logger.Error("POST /search failed", "client_id", req.ClientID, "error", err)
		metrics.RecordSearch(metrics.OutcomeError)
		return jsonError(c, fiber.StatusInternalServerError, msgSearchFailed)
	}

	metrics.RecordSearch(metrics.OutcomeOK)
	return c.JSON(status)
}
