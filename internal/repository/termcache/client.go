// Package termcache caches terminology API responses in a key-value store.
package termcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/db"
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

const (
	kindCollections = "collections"
	kindSearch      = "search"
)

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// upstream is the terminology API surface being cached.
type upstream interface {
	PageSize() int
	SearchURL(f filter.Filters, pageIndex, pageSize int) (string, error)
	FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error)
	FetchSearchPage(ctx context.Context, f filter.Filters, pageIndex, pageSize int) ([]entry.Entry, error)
	HealthCheck(ctx context.Context) error
}

// TTLs holds the expiry of each cached response kind. Zero disables caching of that kind.
type TTLs struct {
	Collections time.Duration
	Search      time.Duration
}

// Client is a caching decorator over the terminology API client.
type Client struct {
	inner      upstream
	store      store
	ttl        TTLs
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner upstream,
	s store,
	ttl TTLs,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Client {
	return &Client{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// PageSize returns the page size of the wrapped client.
func (c *Client) PageSize() int { return c.inner.PageSize() }

// HealthCheck is not cached.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.inner.HealthCheck(ctx) //nolint:wrapcheck // pass-through
}

// FetchCollections returns cached collections for the source language or calls the API.
func (c *Client) FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error) {
	if c.ttl.Collections <= 0 {
		return c.inner.FetchCollections(ctx, source) //nolint:wrapcheck // pass-through
	}

	key := kindCollections + ":" + string(source)
	var cols []collection.Collection
	if c.getFromCache(ctx, kindCollections, key, &cols) {
		return cols, nil
	}

	cols, err := c.inner.FetchCollections(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}
	c.putToCache(ctx, key, cols, c.ttl.Collections)
	return cols, nil
}

// FetchSearchPage returns a cached search page or calls the API.
// Pages are keyed by the full request URL.
func (c *Client) FetchSearchPage(
	ctx context.Context, f filter.Filters, pageIndex, pageSize int,
) ([]entry.Entry, error) {
	if c.ttl.Search <= 0 || !f.Ready() {
		return c.inner.FetchSearchPage(ctx, f, pageIndex, pageSize) //nolint:wrapcheck // pass-through
	}

	target, err := c.inner.SearchURL(f, pageIndex, pageSize)
	if err != nil {
		return nil, fmt.Errorf("search url: %w", err)
	}
	key := cacheKey(kindSearch, target)

	var entries []entry.Entry
	if c.getFromCache(ctx, kindSearch, key, &entries) {
		return entries, nil
	}

	entries, err = c.inner.FetchSearchPage(ctx, f, pageIndex, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch search page %d: %w", pageIndex, err)
	}
	c.putToCache(ctx, key, entries, c.ttl.Search)
	return entries, nil
}

// SearchURL delegates to the wrapped client.
func (c *Client) SearchURL(f filter.Filters, pageIndex, pageSize int) (string, error) {
	return c.inner.SearchURL(f, pageIndex, pageSize) //nolint:wrapcheck // pass-through
}

func (c *Client) incCache(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func cacheKey(kind, raw string) string {
	h := sha256.Sum256([]byte(raw))
	return kind + ":" + hex.EncodeToString(h[:])
}

func (c *Client) getFromCache(ctx context.Context, kind, key string, dst any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached response", zap.String("key", key), zap.Error(err))
		}
		c.incCache(kind, "miss")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to decode cached response", zap.String("key", key), zap.Error(err))
		c.incCache(kind, "miss")
		return false
	}
	c.incCache(kind, "hit")
	return true
}

func (c *Client) putToCache(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
