package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"
	"github.com/urfave/cli/v2"

	"cachie/internal/config"
	"cachie/internal/engine"
	"cachie/internal/jobs"
	"cachie/internal/logging"
	"cachie/internal/metrics"
	"cachie/internal/querylog"
	"cachie/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "cachie",
		Usage: "Search token analytics service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides SERVER_ADDR and PORT)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "query-log",
				Usage: "Query log backend (memory, badger)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker pool size for fuzzy analysis",
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads env configuration and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Load()
	if c.IsSet("addr") {
		cfg.ServerAddr = c.String("addr")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("query-log") {
		cfg.QueryLogBackend = c.String("query-log")
	}
	if c.IsSet("workers") {
		cfg.AnalysisWorkers = c.Int("workers")
	}
	return cfg, cfg.Validate()
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	yamlCfg, err := config.LoadYAMLConfigFrom(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.ConfigFile, err)
	}
	if yamlCfg != nil {
		logger.Info("loaded client overrides", "file", cfg.ConfigFile, "clients", len(yamlCfg.Clients))
	}

	qlog, err := querylog.Open(cfg.QueryLogBackend, logger)
	if err != nil {
		return fmt.Errorf("failed to open query log: %w", err)
	}
	defer qlog.Close()

	eng, err := engine.New(qlog,
		engine.WithLogger(logger),
		engine.WithPoolSize(cfg.AnalysisWorkers),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Close()

	if cfg.MetricsEnabled {
		metrics.Init(eng)
	}

	var storage fiber.Storage
	if cfg.RateLimitRedisURL != "" {
		store := redis.New(redis.Config{URL: cfg.RateLimitRedisURL})
		defer store.Close()
		storage = store
		logger.Info("rate limiter using redis storage")
	}

	srv := server.New(cfg, logger)
	srv.RegisterRoutes(eng, storage, yamlCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StatsReportInterval > 0 {
		go jobs.NewStatsReporter(eng, cfg.StatsReportInterval, logger).Start(ctx)
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
