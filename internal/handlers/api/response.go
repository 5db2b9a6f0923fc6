package api

import (
	"github.com/gofiber/fiber/v3"

	"cachie/internal/models"
)

// Error messages returned to clients. Internal causes are only logged.
const (
	msgSearchFailed = "An error occurred while processing the search"
)

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}
