package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/usecase/search"
)

// --- Mocks ---

type fetchFunc func(f filter.Filters, pageIndex int) ([]entry.Entry, error)

type mockSource struct {
	pageSize int
	fetch    fetchFunc
}

func (m *mockSource) PageSize() int { return m.pageSize }

func (m *mockSource) FetchSearchPage(_ context.Context, f filter.Filters, pageIndex, _ int) ([]entry.Entry, error) {
	return m.fetch(f, pageIndex)
}

// pagesByCollection serves one short page holding an entry per selected collection.
func pagesByCollection(f filter.Filters, pageIndex int) ([]entry.Entry, error) {
	if pageIndex > 1 {
		return nil, nil
	}
	out := make([]entry.Entry, 0, len(f.Collections))
	for _, id := range f.Collections {
		out = append(out, entry.Entry{ID: id * 100, Collection: &collection.Collection{ID: id}})
	}
	return out, nil
}

func newTestSession(t *testing.T, fetch fetchFunc, initial filter.Filters) *Session {
	t.Helper()
	s := New("test", search.New(&mockSource{pageSize: 10, fetch: fetch}), initial, nil)
	t.Cleanup(s.Close)
	return s
}

func waitFor(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func entryIDs(entries []entry.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// --- Tests ---

func TestNew_DefaultsNotReady(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())

	st := s.Snapshot()
	assert.False(t, st.Ready)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.LanguageIT, st.Filters.Source)
	assert.Equal(t, []domain.LanguageCode{domain.LanguageDE}, st.Filters.Targets)
	assert.Empty(t, s.Entries())
}

func TestSetCollections_RunsSearch(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())

	st := s.SetCollections([]int{3, 4})
	assert.True(t, st.Ready)
	assert.True(t, st.Loading)

	waitFor(t, s)
	st = s.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, []int{300, 400}, entryIDs(s.Entries()))
}

func TestSetSource_RemovesSourceFromTargets(t *testing.T) {
	initial := filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE, domain.LanguageFR}, []int{1})
	s := newTestSession(t, pagesByCollection, initial)

	st := s.SetSource(domain.LanguageFR)
	assert.Equal(t, domain.LanguageFR, st.Filters.Source)
	assert.Equal(t, []domain.LanguageCode{domain.LanguageDE}, st.Filters.Targets)
}

func TestToggleTarget_LastTargetLocked(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())

	st, ok := s.ToggleTarget(domain.LanguageDE, false)
	assert.False(t, ok)
	assert.Equal(t, []domain.LanguageCode{domain.LanguageDE}, st.Filters.Targets)

	st, ok = s.ToggleTarget(domain.LanguageFR, true)
	assert.True(t, ok)
	assert.Equal(t, []domain.LanguageCode{domain.LanguageDE, domain.LanguageFR}, st.Filters.Targets)

	st, ok = s.ToggleTarget(domain.LanguageDE, false)
	assert.True(t, ok)
	assert.Equal(t, []domain.LanguageCode{domain.LanguageFR}, st.Filters.Targets)
}

func TestUnchangedSelectionKeepsRun(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())

	first := s.SetCollections([]int{1})
	second := s.SetCollections([]int{1})
	assert.Equal(t, first.RunID, second.RunID)
}

func TestStaleRunIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetch := func(f filter.Filters, pageIndex int) ([]entry.Entry, error) {
		if f.Collections[0] == 1 {
			<-release
		}
		return pagesByCollection(f, pageIndex)
	}
	s := newTestSession(t, fetch, filter.Default())

	slow := s.SetCollections([]int{1})
	fast := s.SetCollections([]int{2})
	require.Greater(t, fast.RunID, slow.RunID)

	waitFor(t, s)
	assert.Equal(t, []int{200}, entryIDs(s.Entries()))

	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []int{200}, entryIDs(s.Entries()))
	assert.Equal(t, fast.RunID, s.Snapshot().RunID)
}

func TestSubscribe(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())

	var mu sync.Mutex
	var states []State
	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	s.SetCollections([]int{5})
	waitFor(t, s)

	mu.Lock()
	require.NotEmpty(t, states)
	last := states[len(states)-1]
	for i := 1; i < len(states); i++ {
		assert.Greater(t, states[i].Version, states[i-1].Version)
	}
	mu.Unlock()
	assert.False(t, last.Loading)
	assert.Equal(t, 1, last.Total)

	unsubscribe()
	mu.Lock()
	n := len(states)
	mu.Unlock()

	s.AddCollection(6)
	waitFor(t, s)
	mu.Lock()
	assert.Len(t, states, n)
	mu.Unlock()
}

func TestFetchAll(t *testing.T) {
	s := newTestSession(t, pagesByCollection, filter.Default())
	ctx := context.Background()

	f, entries, err := s.FetchAll(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "not ready")
	assert.Equal(t, filter.Default(), f)

	s.SetCollections([]int{1, 2, 3})

	_, entries, err = s.FetchAll(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "zero limit")

	f, entries, err = s.FetchAll(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, f.Collections)
	assert.Equal(t, []int{100, 200}, entryIDs(entries))

	_, entries, err = s.FetchAll(ctx, 5000)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFetchAll_SelectionChangedWhileWaiting(t *testing.T) {
	itStarted := make(chan struct{})
	releaseIT := make(chan struct{})
	defer func() {
		select {
		case <-releaseIT:
		default:
			close(releaseIT)
		}
	}()
	fetch := func(f filter.Filters, pageIndex int) ([]entry.Entry, error) {
		if pageIndex > 1 {
			return nil, nil
		}
		if f.Source == domain.LanguageIT {
			close(itStarted)
			<-releaseIT
			return []entry.Entry{{ID: 1, LanguageDetails: []entry.LanguageDetail{
				{LanguageCode: domain.LanguageIT, Terminus: "contratto"},
			}}}, nil
		}
		return []entry.Entry{{ID: 2, LanguageDetails: []entry.LanguageDetail{
			{LanguageCode: domain.LanguageFR, Terminus: "contrat"},
		}}}, nil
	}
	s := newTestSession(t, fetch, filter.Default())
	s.SetCollections([]int{1})
	<-itStarted

	type fetched struct {
		f       filter.Filters
		entries []entry.Entry
		err     error
	}
	out := make(chan fetched, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		f, entries, err := s.FetchAll(ctx, 10)
		out <- fetched{f, entries, err}
	}()

	time.Sleep(20 * time.Millisecond)
	s.SetSource(domain.LanguageFR)
	close(releaseIT)

	got := <-out
	require.NoError(t, got.err)
	assert.Equal(t, domain.LanguageFR, got.f.Source)
	assert.Equal(t, []int{2}, entryIDs(got.entries))
}

func TestFetchAll_SurfacesRunError(t *testing.T) {
	fetch := func(_ filter.Filters, _ int) ([]entry.Entry, error) {
		return nil, domain.ErrUpstream
	}
	s := newTestSession(t, fetch, filter.Default())
	s.SetCollections([]int{1})

	_, _, err := s.FetchAll(context.Background(), 10)
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotEmpty(t, s.Snapshot().Error)
	assert.False(t, s.Snapshot().Loading)
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	fetch := func(f filter.Filters, pageIndex int) ([]entry.Entry, error) {
		<-block
		return pagesByCollection(f, pageIndex)
	}
	s := newTestSession(t, fetch, filter.Default())
	s.SetCollections([]int{1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := s.FetchAll(ctx, 10)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFailedPageKeepsPublishedFirstPage(t *testing.T) {
	fetch := func(f filter.Filters, pageIndex int) ([]entry.Entry, error) {
		if pageIndex == 2 {
			return nil, domain.ErrUpstream
		}
		page := make([]entry.Entry, 10)
		for i := range page {
			page[i] = entry.Entry{ID: i, Collection: &collection.Collection{ID: f.Collections[0]}}
		}
		return page, nil
	}
	s := newTestSession(t, fetch, filter.Default())
	s.SetCollections([]int{1})
	waitFor(t, s)

	st := s.Snapshot()
	assert.Equal(t, 10, st.Total)
	assert.NotEmpty(t, st.Error)
}
