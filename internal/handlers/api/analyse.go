package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cachie/internal/metrics"
	"cachie/internal/middleware"
	"cachie/internal/models"
)

// TokenAnalyzer answers token-pair analyses. It never fails; internal errors
// surface as a degraded result.
type TokenAnalyzer interface {
	AnalyzeToken(ctx context.Context, analysisToken string, matchType models.MatchType, includeStats bool) *models.AnalysisResult
}

// AnalyseHandler handles token analysis via JSON API.
type AnalyseHandler struct {
	engine TokenAnalyzer
	logger *slog.Logger
}

// NewAnalyseHandler creates a new API analyse handler.
func NewAnalyseHandler(engine TokenAnalyzer, logger *slog.Logger) *AnalyseHandler {
	return &AnalyseHandler{engine: engine, logger: logger}
}

// Analyse reports per-pair analytics. Must run after middleware.ValidateAnalyse.
func (h *AnalyseHandler) Analyse(c fiber.Ctx) error {
	req, ok := middleware.AnalyseRequestFrom(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, `"analysis_token" is required`)
	}

	h.logger.Info("GET /analyse",
		"analysis_token", req.AnalysisToken,
		"match_type", req.MatchType,
		"include_stats", req.IncludeStats,
	)

	result := h.engine.AnalyzeToken(c.Context(), req.AnalysisToken, req.MatchType, req.IncludeStats)
	metrics.RecordAnalysis(req.MatchType)
	return c.JSON(result)
}
