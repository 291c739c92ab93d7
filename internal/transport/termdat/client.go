package termdat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/metrics"
)

const (
	collectionsPath = "/api/Collection"
	searchPath      = "/api/Search/Search"

	endpointCollections = "collections"
	endpointSearch      = "search"

	maxBodyBytes = 32 << 20
)

// Client talks to the terminology REST API.
type Client struct {
	baseURL     string
	pageSize    int
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// Config holds the terminology API client settings.
type Config struct {
	BaseURL    string
	PageSize   int
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a terminology API client. A non-positive rate disables rate limiting.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:    pageSize,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(limit, burst),
		logger:      logger,
	}
}

// PageSize returns the configured search page size.
func (c *Client) PageSize() int { return c.pageSize }

// FetchCollections lists the collections, labelled in the source language and sorted by name.
// A body that is not a JSON array yields an empty list; malformed items are defaulted.
func (c *Client) FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error) {
	req, err := c.newRequest(ctx, c.baseURL+collectionsPath)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", string(source))

	body, err := c.do(req, endpointCollections)
	if err != nil {
		return nil, err
	}

	var dtos List[CollectionResponse]
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.logger.Debug("collections payload is not json", zap.Error(err))
		return []collection.Collection{}, nil
	}
	return MapCollections(dtos), nil
}

// SearchURL returns the search request URL for one page.
func (c *Client) SearchURL(f filter.Filters, pageIndex, pageSize int) (string, error) {
	query, err := BuildSearchQuery(f, pageIndex, pageSize)
	if err != nil {
		return "", err
	}
	return c.baseURL + searchPath + "?" + query.Encode(), nil
}

// FetchSearchPage fetches one page of search results.
// Returns no entries and no error when the filters are not ready.
// Fields of the wrong type are defaulted per entry and term.
func (c *Client) FetchSearchPage(
	ctx context.Context, f filter.Filters, pageIndex, pageSize int,
) ([]entry.Entry, error) {
	target, err := c.SearchURL(f, pageIndex, pageSize)
	if errors.Is(err, domain.ErrNotReady) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, target)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, endpointSearch)
	if err != nil {
		return nil, err
	}

	var payload SearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Debug("search payload is not an object", zap.Error(err))
		return []entry.Entry{}, nil
	}
	return MapSearchResponse(payload), nil
}

// HealthCheck verifies the API answers the collections endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.FetchCollections(ctx, domain.DefaultSource); err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends the request and returns the body of a 2xx response.
// Every failure is wrapped with domain.ErrUpstream.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w: %w", endpoint, domain.ErrUpstream, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.TermdatRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TermdatRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%s request failed: %w: %w", endpoint, domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.TermdatRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("terminology api returned non-success status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewUpstreamStatus(endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w: %w", endpoint, domain.ErrUpstream, err)
	}
	return body, nil
}
