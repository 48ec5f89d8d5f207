package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/db"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
	"github.com/geotaxlab/infohub-agent/internal/usecase/retrieval"
)

const cacheKeyPrefix = "infohub:search_cache:"

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Compile-time check: CachedSearcher implements retrieval.Searcher.
var _ retrieval.Searcher = (*CachedSearcher)(nil)

// CachedSearcher caches portal search pages in a key-value store with a TTL.
// The portal corpus changes slowly, so a short TTL trades a bounded staleness
// window for fewer upstream round-trips.
type CachedSearcher struct {
	inner  retrieval.Searcher
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a caching decorator around a Searcher.
func New(inner retrieval.Searcher, s store, ttl time.Duration, logger *zap.Logger) *CachedSearcher {
	return &CachedSearcher{
		inner:  inner,
		store:  s,
		ttl:    ttl,
		logger: logger,
	}
}

// Search returns a cached page or calls the inner searcher.
func (c *CachedSearcher) Search(ctx context.Context, query string, topK int) (retrieval.SearchPage, error) {
	key := c.cacheKey(query, topK)

	if page, ok := c.getFromCache(ctx, key); ok {
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
		return page, nil
	}

	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()

	page, err := c.inner.Search(ctx, query, topK)
	if err != nil {
		return retrieval.SearchPage{}, fmt.Errorf("search %q: %w", query, err)
	}

	c.putToCache(ctx, key, page)
	return page, nil
}

func (c *CachedSearcher) cacheKey(query string, topK int) string {
	h := sha256.Sum256([]byte(query))
	return cacheKeyPrefix + strconv.Itoa(topK) + ":" + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (retrieval.SearchPage, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search page", zap.String("key", key), zap.Error(err))
		}
		return retrieval.SearchPage{}, false
	}

	var page retrieval.SearchPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("Failed to parse cached search page", zap.String("key", key), zap.Error(err))
		return retrieval.SearchPage{}, false
	}

	return page, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, page retrieval.SearchPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Failed to encode search page", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search page", zap.String("key", key), zap.Error(err))
	}
}
