package analytics

import "time"

type EventType string

const (
	EventRetrieval  EventType = "retrieval"
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
	EventEmptyQuery EventType = "empty_query"
	EventZeroResult EventType = "zero_result"
)

// RetrievalEvent is the fire-and-forget record emitted for every retrieval
// call. Consumers never answer back; losing events must not affect the
// request path.
type RetrievalEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	TopN      int       `json:"top_n"`
	Returned  int       `json:"returned"`
	TopScore  float64   `json:"top_score"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}
