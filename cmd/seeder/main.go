package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"cachie/internal/logging"
)

var queries = []string{
	"go fiber tutorial",
	"go fiber middleware",
	"golang fiber routing",
	"best pizza near me",
	"best pizza delivery",
	"cheap flights to lisbon",
	"cheap flight to lisbon",
	"hello world program",
	"hello world in go",
	"world cup schedule",
	"world cup results",
	"python list comprehension",
	"rust borrow checker",
	"docker compose volumes",
	"kubernetes pod restart",
	"redis rate limiter",
	"prometheus histogram buckets",
	"badger key value store",
}

var clients = []string{"web", "ios", "android"}

type searchBody struct {
	SearchQuery string `json:"search_query"`
	ClientID    string `json:"client_id"`
	SessionID   string `json:"session_id"`
}

func main() {
	app := &cli.App{
		Name:  "seeder",
		Usage: "Replay sample searches against a running cachie server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Base URL of the server",
				Value: "http://localhost:3000",
			},
			&cli.IntFlag{
				Name:  "rounds",
				Usage: "How many times to replay the sample set",
				Value: 1,
			},
			&cli.Float64Flag{
				Name:  "rps",
				Usage: "Requests per second",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "analyse",
				Usage: "Comma-separated token pairs to analyse after seeding",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Action: seed,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seed(c *cli.Context) error {
	logger, closer, err := logging.New(c.String("log-level"), "text", "")
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rps := c.Float64("rps")
	if rps <= 0 {
		return fmt.Errorf("rps must be positive, got %v", rps)
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	client := &http.Client{Timeout: 10 * time.Second}
	base := c.String("url")

	sent, failed := 0, 0
	for round := 0; round < c.Int("rounds"); round++ {
		for i, q := range queries {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			body := searchBody{
				SearchQuery: q,
				ClientID:    clients[i%len(clients)],
				SessionID:   fmt.Sprintf("seed-%d-%d", round, i%4),
			}
			if err := postSearch(ctx, client, base, body); err != nil {
				logger.Warn("search failed", "query", q, "error", err)
				failed++
				continue
			}
			sent++
		}
	}
	logger.Info("seeding complete", "sent", sent, "failed", failed)

	if tokens := c.String("analyse"); tokens != "" {
		return printAnalysis(ctx, client, base, tokens)
	}
	return nil
}

func postSearch(ctx context.Context, client *http.Client, base string, body searchBody) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/search", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

func printAnalysis(ctx context.Context, client *http.Client, base, tokens string) error {
	for _, mode := range []string{"exact", "fuzzy"} {
		q := url.Values{}
		q.Set("analysis_token", tokens)
		q.Set("match_type", mode)
		q.Set("include_stats", "true")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/analyse?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		out, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", mode, bytes.TrimSpace(out))
	}
	return nil
}
