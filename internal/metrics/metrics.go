package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"cachie/internal/engine"
	"cachie/internal/models"
)

// Outcome labels for RecordSearch.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	searchesLoggedDesc = prometheus.NewDesc(
		"cachie_query_log_searches",
		"Number of searches held in the query log",
		nil,
		nil,
	)
	indexedBigramsDesc = prometheus.NewDesc(
		"cachie_index_bigrams",
		"Number of distinct bigrams in the token index",
		nil,
		nil,
	)

	searchesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cachie_searches_recorded_total",
		Help: "Total POST /search requests handled by outcome",
	}, []string{"outcome"})

	analysesServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cachie_analyses_total",
		Help: "Total GET /analyse requests handled by match type",
	}, []string{"match_type"})

	rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cachie_rate_limited_total",
		Help: "Total requests rejected by the per-client rate limiter",
	})
)

// StatsSource reports engine size on demand.
type StatsSource interface {
	Stats() engine.Snapshot
}

// EngineCollector is a custom Prometheus collector that reads engine size
// on each scrape.
type EngineCollector struct {
	src StatsSource
}

// NewEngineCollector creates a collector over src.
func NewEngineCollector(src StatsSource) *EngineCollector {
	return &EngineCollector{src: src}
}

// Describe sends the metric descriptors to the channel.
func (c *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- searchesLoggedDesc
	ch <- indexedBigramsDesc
}

// Collect emits the current log size and index size as gauges.
func (c *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(searchesLoggedDesc, prometheus.GaugeValue, float64(snap.SearchesLogged))
	ch <- prometheus.MustNewConstMetric(indexedBigramsDesc, prometheus.GaugeValue, float64(snap.IndexedBigrams))
}

var initOnce sync.Once

// Init registers the engine collector and request counters with the default
// registry. Must be called once at startup; later calls are no-ops.
func Init(src StatsSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEngineCollector(src), searchesRecorded, analysesServed, rateLimited)
	})
}

// RecordSearch counts a handled search request.
func RecordSearch(outcome string) {
	searchesRecorded.WithLabelValues(outcome).Inc()
}

// RecordAnalysis counts a handled analysis request.
func RecordAnalysis(matchType models.MatchType) {
	analysesServed.WithLabelValues(string(matchType)).Inc()
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited() {
	rateLimited.Inc()
}
