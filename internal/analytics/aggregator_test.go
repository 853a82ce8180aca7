package analytics

import (
	"testing"
	"time"
)

func TestAggregatorRecordAndStats(t *testing.T) {
	agg := NewAggregator()

	agg.Record(RetrievalEvent{Type: EventRetrieval, Query: "cat", Returned: 3, LatencyMs: 10, CacheHit: false, Timestamp: time.Now()})
	agg.Record(RetrievalEvent{Type: EventRetrieval, Query: "cat", Returned: 3, LatencyMs: 20, CacheHit: true, Timestamp: time.Now()})
	agg.Record(RetrievalEvent{Type: EventEmptyQuery, Query: "zzqx999", Returned: 0, LatencyMs: 5, CacheHit: false, Timestamp: time.Now()})

	stats := agg.Stats()

	if stats.TotalRetrievals != 3 {
		t.Errorf("TotalRetrievals = %d, want 3", stats.TotalRetrievals)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 1/2", stats.CacheHits, stats.CacheMisses)
	}
	if stats.EmptyQueryCount != 1 {
		t.Errorf("EmptyQueryCount = %d, want 1", stats.EmptyQueryCount)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if len(stats.TopQueries) == 0 || stats.TopQueries[0].Query != "cat" || stats.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %v, want cat with count 2 first", stats.TopQueries)
	}
	if len(stats.EmptyQueryQueries) != 1 || stats.EmptyQueryQueries[0].Query != "zzqx999" {
		t.Errorf("EmptyQueryQueries = %v, want [zzqx999]", stats.EmptyQueryQueries)
	}
	if stats.AvgLatencyMs == 0 {
		t.Error("AvgLatencyMs = 0, want > 0")
	}
}

func TestAggregatorLatencyPercentiles(t *testing.T) {
	agg := NewAggregator()
	for i := int64(1); i <= 100; i++ {
		agg.Record(RetrievalEvent{Type: EventRetrieval, Query: "q", Returned: 1, LatencyMs: i})
	}

	stats := agg.Stats()
	if stats.P50LatencyMs < 40 || stats.P50LatencyMs > 60 {
		t.Errorf("P50 = %d, want around 50", stats.P50LatencyMs)
	}
	if stats.P95LatencyMs < 90 {
		t.Errorf("P95 = %d, want >= 90", stats.P95LatencyMs)
	}
	if stats.P99LatencyMs < stats.P95LatencyMs {
		t.Errorf("P99 (%d) < P95 (%d)", stats.P99LatencyMs, stats.P95LatencyMs)
	}
}

func TestTopNDeterministicOrder(t *testing.T) {
	counts := map[string]int64{"b": 2, "a": 2, "c": 5}

	got := topN(counts, 3)
	if got[0].Query != "c" {
		t.Errorf("first = %q, want c", got[0].Query)
	}
	// Equal counts order lexicographically.
	if got[1].Query != "a" || got[2].Query != "b" {
		t.Errorf("tied order = %q, %q; want a, b", got[1].Query, got[2].Query)
	}
}
