// Package handler exposes the retrieval service over HTTP.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lexret/internal/analytics"
	"lexret/internal/retriever"
	"lexret/internal/server/cache"
	"lexret/pkg/logger"
	"lexret/pkg/metrics"
	"lexret/pkg/tracing"
)

// Handler answers retrieval, corpus, and cache-admin requests against a
// fitted retriever. The retriever is immutable, so no locking is needed
// around it.
type Handler struct {
	retriever *retriever.Retriever
	cache     *cache.ResultCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	maxTopN   int
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil; the handler
// degrades to uncached, untracked operation.
func New(r *retriever.Retriever, resultCache *cache.ResultCache, collector *analytics.Collector, m *metrics.Metrics, maxTopN int) *Handler {
	return &Handler{
		retriever: r,
		cache:     resultCache,
		collector: collector,
		metrics:   m,
		maxTopN:   maxTopN,
		logger:    slog.Default().With("component", "retrieve-handler"),
	}
}

// Retrieve handles GET /api/v1/retrieve?q=...&top_n=N.
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	topN := 0
	if topNStr := r.URL.Query().Get("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		if parsed > h.maxTopN {
			parsed = h.maxTopN
		}
		topN = parsed
	}

	ctx, span := tracing.StartSpan(ctx, "retrieve", logger.RequestID(ctx))
	span.SetAttr("query", query)
	span.SetAttr("top_n", topN)

	var result *retriever.Result
	var err error
	cacheHit := false

	compute := func() (*retriever.Result, error) {
		_, rankSpan := tracing.StartChildSpan(ctx, "rank")
		defer rankSpan.End()
		return h.retriever.Query(query, topN), nil
	}
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, topN, compute)
	} else {
		result, err = compute()
	}
	span.End()

	if err != nil {
		log.Error("retrieval failed", "query", query, "error", err)
		h.observe("error", cacheHit, start, 0)
		h.writeError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}

	latency := time.Since(start)
	outcome := "hit"
	eventType := analytics.EventRetrieval
	if len(result.Results) == 0 {
		outcome = "empty_query"
		eventType = analytics.EventEmptyQuery
	}
	h.observe(outcome, cacheHit, start, len(result.Results))

	log.Info("retrieval completed",
		"query", query,
		"top_n", topN,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	span.Log()

	if h.collector != nil {
		var topScore float64
		if len(result.Results) > 0 {
			topScore = result.Results[0].Score
		}
		h.collector.Track(analytics.RetrievalEvent{
			Type:      eventType,
			Query:     query,
			TopN:      topN,
			Returned:  len(result.Results),
			TopScore:  topScore,
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Corpus handles GET /api/v1/corpus with fitted-state stats.
func (h *Handler) Corpus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"documents":       h.retriever.DocCount(),
		"vocabulary_size": h.retriever.VocabSize(),
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observe(outcome string, cacheHit bool, start time.Time, returned int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RetrievalsTotal.WithLabelValues(outcome).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.RetrievalLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.RetrievalResults.Observe(float64(returned))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
