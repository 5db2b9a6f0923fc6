package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"gopkg.in/yaml.v3"

	"cachie/internal/config"
	"cachie/internal/models"
	"cachie/internal/testutil"
)

func newTestServer(t *testing.T, limit int) *Server {
	t.Helper()
	cfg := &config.Config{
		Env:                    "test",
		RequestLimit:           limit,
		RateLimitResetInterval: time.Minute,
		QueryLogBackend:        "memory",
		MetricsEnabled:         true,
	}
	eng, _ := testutil.TestEngine(t)
	s := New(cfg, testutil.DiscardLogger())
	s.RegisterRoutes(eng, nil, nil)
	return s
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	return resp
}

// TestRecordThenAnalyse walks the full middleware stack: limiter, validation,
// handler and engine.
func TestRecordThenAnalyse(t *testing.T) {
	s := newTestServer(t, 100)

	searches := []string{
		`{"search_query":"go fiber tutorial","client_id":"c1","session_id":"s1"}`,
		`{"search_query":"Go Fiber middleware","client_id":"c2","session_id":"s2"}`,
	}
	for _, body := range searches {
		resp := doRequest(t, s.App, http.MethodPost, "/search", body)
		if resp.StatusCode != fiber.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			t.Fatalf("POST /search: expected 200, got %d: %s", resp.StatusCode, b)
		}
	}

	resp := doRequest(t, s.App, http.MethodGet, "/analyse?analysis_token=go%20fiber&include_stats=true", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET /analyse: expected 200, got %d", resp.StatusCode)
	}

	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := result.Results["go fiber"].ExactMatches; got != 2 {
		t.Errorf("exact_matches = %d, want 2", got)
	}
	if result.Stats == nil || result.Stats.TotalSearchesAnalyzed != 2 {
		t.Errorf("stats = %+v, want total_searches_analyzed 2", result.Stats)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, 100)

	resp := doRequest(t, s.App, http.MethodGet, "/healthz", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRateLimitAppliesBeforeValidation(t *testing.T) {
	s := newTestServer(t, 1)

	// Invalid but attributed to c1: consumes the window.
	resp := doRequest(t, s.App, http.MethodPost, "/search", `{"client_id":"c1"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("first request: expected 400, got %d", resp.StatusCode)
	}

	resp = doRequest(t, s.App, http.MethodPost, "/search", `{"search_query":"a b","client_id":"c1","session_id":"s1"}`)
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", resp.StatusCode)
	}
	var e models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Error != "Rate limit exceeded" {
		t.Errorf("error = %q, want %q", e.Error, "Rate limit exceeded")
	}
}

func TestNotFoundRendersJSON(t *testing.T) {
	s := newTestServer(t, 100)

	resp := doRequest(t, s.App, http.MethodGet, "/nope", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var e models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if e.Error == "" {
		t.Error("expected non-empty error message")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, 100)

	resp := doRequest(t, s.App, http.MethodGet, "/metrics", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("expected default Go collector output, got %.200s", body)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	s := newTestServer(t, 100)

	resp := doRequest(t, s.App, http.MethodGet, "/openapi.yaml", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var doc struct {
		Paths map[string]any `yaml:"paths"`
	}
	if err := yaml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("document is not valid YAML: %v", err)
	}
	for _, path := range []string{"/search", "/analyse", "/healthz"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("document missing path %s", path)
		}
	}
}
