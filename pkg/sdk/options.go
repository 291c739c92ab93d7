package termdeck

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBaseURL is the public TermDat API.
const DefaultBaseURL = "https://api.termdat.bk.admin.ch"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	pageSize   int
	ratePerSec float64
	burst      int

	redisAddrs     []string
	redisPassword  string
	keyPrefix      string
	collectionsTTL time.Duration
	searchTTL      time.Duration

	exportLimit int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL points the client at another TermDat deployment.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout. Ignored together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithPageSize sets the search page size. Default: 100.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithRateLimit caps API calls per second. Default: unlimited.
func WithRateLimit(perSec float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.ratePerSec = perSec
		c.burst = burst
	})
}

// WithRedis caches API responses in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithCacheTTL sets how long collection lists and search pages stay cached.
// Defaults: 1h and 10m. Zero disables caching of that kind.
func WithCacheTTL(collections, search time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.collectionsTTL = collections
		c.searchTTL = search
	})
}

// WithKeyPrefix namespaces cache keys. Default: "termdeck:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithExportLimit caps the number of entries turned into cards. Default: 5000.
func WithExportLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportLimit = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations, cache hits)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
