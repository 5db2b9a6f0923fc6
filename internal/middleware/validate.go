package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cachie/internal/models"
	"cachie/internal/validation"
)

const (
	searchRequestKey  = "searchRequest"
	analyseRequestKey = "analyseRequest"
)

// ValidateSearch rejects POST /search bodies that fail validation with a 400
// carrying the first violation. Valid requests are stored for the handler.
func ValidateSearch(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		req, msg := validation.ValidateSearchBody(c.Body())
		if msg != "" {
			logger.Warn("search validation failed", "error", msg, "ip", c.IP())
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msg})
		}
		c.Locals(searchRequestKey, req)
		return c.Next()
	}
}

// ValidateAnalyse rejects GET /analyse queries that fail validation.
func ValidateAnalyse(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		req, msg := validation.ValidateAnalyseQuery(c.Queries())
		if msg != "" {
			logger.Warn("analysis validation failed", "error", msg, "ip", c.IP())
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msg})
		}
		c.Locals(analyseRequestKey, req)
		return c.Next()
	}
}

// SearchRequestFrom returns the request stored by ValidateSearch.
func SearchRequestFrom(c fiber.Ctx) (*validation.SearchRequest, bool) {
	req, ok := c.Locals(searchRequestKey).(*validation.SearchRequest)
	return req, ok
}

// AnalyseRequestFrom returns the request stored by ValidateAnalyse.
func AnalyseRequestFrom(c fiber.Ctx) (*validation.AnalyseRequest, bool) {
	req, ok := c.Locals(analyseRequestKey).(*validation.AnalyseRequest)
	return req, ok
}
