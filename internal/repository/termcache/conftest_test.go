package termcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/db"
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

type mockUpstream struct {
	cols        []collection.Collection
	entries     []entry.Entry
	err         error
	colCalls    int
	searchCalls int
}

func (m *mockUpstream) PageSize() int { return 100 }

func (m *mockUpstream) SearchURL(f filter.Filters, pageIndex, pageSize int) (string, error) {
	if !f.Ready() {
		return "", domain.ErrNotReady
	}
	return "https://api.test/search?" + string(f.Source) + "&page=" + string(rune('0'+pageIndex)), nil
}

func (m *mockUpstream) FetchCollections(_ context.Context, _ domain.LanguageCode) ([]collection.Collection, error) {
	m.colCalls++
	return m.cols, m.err
}

func (m *mockUpstream) FetchSearchPage(_ context.Context, _ filter.Filters, _, _ int) ([]entry.Entry, error) {
	m.searchCalls++
	return m.entries, m.err
}

func (m *mockUpstream) HealthCheck(_ context.Context) error { return m.err }

// memStore is an in-memory KV store with optional failure injection.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestClient(t *testing.T, inner *mockUpstream, ttl TTLs) (*Client, *memStore, *prometheus.CounterVec) {
	t.Helper()
	ms := newMemStore()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"kind", "result"})
	return New(inner, ms, ttl, counter, zap.NewNop()), ms, counter
}

func readyFilters() filter.Filters {
	return filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE}, []int{12})
}

var defaultTTLs = TTLs{Collections: time.Hour, Search: 10 * time.Minute}
