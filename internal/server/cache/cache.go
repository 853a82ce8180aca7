// Package cache is a Redis-backed result cache for retrieval calls. Keys
// are derived from the normalized query and requested top_n, entries expire
// after the configured TTL, and concurrent identical misses are collapsed
// through singleflight so the retriever computes each unique query once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"lexret/internal/retriever"
	"lexret/pkg/config"
	pkgredis "lexret/pkg/redis"
)

const keyPrefix = "retrieve:"

// ResultCache caches retriever.Result values in Redis.
type ResultCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "result-cache"),
	}
}

// Get looks up a cached result. Any Redis failure counts as a miss.
func (c *ResultCache) Get(ctx context.Context, query string, topN int) (*retriever.Result, bool) {
	key := c.buildKey(query, topN)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	result, err := decodeCached([]byte(data), query)
	if err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", query, "key", key)
	return result, true
}

// decodeCached unmarshals a cached result and stamps it with the query as
// the caller phrased it. Keys normalize case and word order, so the stored
// Query may come from an equivalent but differently written request.
func decodeCached(data []byte, query string) (*retriever.Result, error) {
	var result retriever.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	result.Query = query
	return &result, nil
}

// Set stores a result with the configured TTL. Failures are logged, never
// surfaced.
func (c *ResultCache) Set(ctx context.Context, query string, topN int, result *retriever.Result) {
	key := c.buildKey(query, topN)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or runs computeFn once for all
// concurrent callers with the same key. The bool reports a cache hit.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	query string,
	topN int,
	computeFn func() (*retriever.Result, error),
) (*retriever.Result, bool, error) {
	if result, ok := c.Get(ctx, query, topN); ok {
		return result, true, nil
	}
	key := c.buildKey(query, topN)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, topN); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, topN, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	result := val.(*retriever.Result)
	if result.Query != query {
		// Singleflight may share one computation between equivalent
		// queries phrased differently; don't leak the other phrasing.
		clone := *result
		clone.Query = query
		return &clone, false, nil
	}
	return result, false, nil
}

// Invalidate deletes every cached retrieval result.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) buildKey(query string, topN int) string {
	raw := fmt.Sprintf("%s:top_n=%d", NormalizeQuery(query), topN)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// NormalizeQuery lower-cases and sorts the query words so equivalent bags of
// words share a cache entry. Cosine scoring is order-insensitive, which makes
// this safe.
func NormalizeQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	sort.Strings(words)
	return strings.Join(words, " ")
}
