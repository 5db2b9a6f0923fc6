package middleware

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	"cachie/internal/config"
	"cachie/internal/metrics"
	"cachie/internal/models"
)

// RateLimitMessage is the body error text for rejected requests.
const RateLimitMessage = "Rate limit exceeded"

// NewRateLimiter returns a fixed-window limiter keyed on the caller's
// client_id. The limit per window comes from the YAML overlay when it names
// the client, otherwise cfg.RequestLimit. A nil storage keeps counters in memory.
func NewRateLimiter(cfg *config.Config, yamlCfg *config.YAMLConfig, storage fiber.Storage, logger *slog.Logger) fiber.Handler {
	return limiter.New(limiter.Config{
		MaxFunc: func(c fiber.Ctx) int {
			return yamlCfg.RequestLimitFor(ClientID(c), cfg.RequestLimit)
		},
		Expiration:   cfg.RateLimitResetInterval,
		KeyGenerator: ClientKey,
		LimitReached: func(c fiber.Ctx) error {
			logger.Warn("rate limit exceeded", "key", ClientKey(c), "path", c.Path())
			metrics.RecordRateLimited()
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{Error: RateLimitMessage})
		},
		Storage:           storage,
		LimiterMiddleware: limiter.FixedWindow{},
	})
}

// ClientKey is the limiter key: the client_id when the request carries one,
// otherwise the caller's IP.
func ClientKey(c fiber.Ctx) string {
	if id := ClientID(c); id != "" {
		return "client:" + id
	}
	return "ip:" + c.IP()
}

// ClientID extracts client_id from the JSON body of a POST or from the query
// string otherwise. Unparsable or non-string values yield "".
func ClientID(c fiber.Ctx) string {
	if c.Method() == fiber.MethodPost {
		var body struct {
			ClientID any `json:"client_id"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return ""
		}
		id, _ := body.ClientID.(string)
		return id
	}
	return c.Query("client_id")
}
