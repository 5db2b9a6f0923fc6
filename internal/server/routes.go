package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cachie/internal/config"
	"cachie/internal/engine"
	"cachie/internal/handlers/api"
	"cachie/internal/middleware"
)

// RegisterRoutes registers all application routes.
//
// The rate limiter runs before validation so malformed requests still count
// against the caller's window. A nil storage keeps limiter state in memory.
func (s *Server) RegisterRoutes(eng *engine.Engine, storage fiber.Storage, yamlCfg *config.YAMLConfig) {
	limit := middleware.NewRateLimiter(s.Cfg, yamlCfg, storage, s.Logger)

	searchHandler := api.NewSearchHandler(eng, s.Logger)
	analyseHandler := api.NewAnalyseHandler(eng, s.Logger)
	healthHandler := api.NewHealthHandler(eng, s.Cfg.QueryLogBackend)

	s.App.Post("/search", limit, middleware.ValidateSearch(s.Logger), searchHandler.Record)
	s.App.Get("/analyse", limit, middleware.ValidateAnalyse(s.Logger), analyseHandler.Analyse)

	s.App.Get("/healthz", healthHandler.Health)
	s.App.Get("/openapi.yaml", serveOpenAPI)

	if s.Cfg.MetricsEnabled {
		s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
}
