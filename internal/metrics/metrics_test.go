package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"cachie/internal/engine"
	"cachie/internal/models"
)

type fixedStats engine.Snapshot

func (f fixedStats) Stats() engine.Snapshot { return engine.Snapshot(f) }

func TestEngineCollector(t *testing.T) {
	c := NewEngineCollector(fixedStats{SearchesLogged: 3, IndexedBigrams: 5})

	expected := `
# HELP cachie_index_bigrams Number of distinct bigrams in the token index
# TYPE cachie_index_bigrams gauge
cachie_index_bigrams 5
# HELP cachie_query_log_searches Number of searches held in the query log
# TYPE cachie_query_log_searches gauge
cachie_query_log_searches 3
`
	if err := promtest.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected collector output: %v", err)
	}
}

func TestEngineCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewEngineCollector(fixedStats{})); err != nil {
		t.Fatalf("register collector: %v", err)
	}
	if n := promtest.CollectAndCount(NewEngineCollector(fixedStats{})); n != 2 {
		t.Errorf("expected 2 metrics, got %d", n)
	}
}

func TestRecordSearch(t *testing.T) {
	before := promtest.ToFloat64(searchesRecorded.WithLabelValues(OutcomeOK))
	RecordSearch(OutcomeOK)
	RecordSearch(OutcomeOK)
	after := promtest.ToFloat64(searchesRecorded.WithLabelValues(OutcomeOK))

	if after-before != 2 {
		t.Errorf("ok counter advanced by %v, want 2", after-before)
	}
}

func TestRecordAnalysis(t *testing.T) {
	before := promtest.ToFloat64(analysesServed.WithLabelValues(string(models.MatchFuzzy)))
	RecordAnalysis(models.MatchFuzzy)
	after := promtest.ToFloat64(analysesServed.WithLabelValues(string(models.MatchFuzzy)))

	if after-before != 1 {
		t.Errorf("fuzzy counter advanced by %v, want 1", after-before)
	}
}

func TestRecordRateLimited(t *testing.T) {
	before := promtest.ToFloat64(rateLimited)
	RecordRateLimited()
	if got := promtest.ToFloat64(rateLimited) - before; got != 1 {
		t.Errorf("rate limited counter advanced by %v, want 1", got)
	}
}
