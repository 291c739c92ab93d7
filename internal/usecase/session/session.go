// Package session holds per-client search state: the filter selection, the published result set
// and the loading flag, with observer notification on every change.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/logger"
	"github.com/kailas-cloud/termdeck/internal/usecase/search"
)

// State is a point-in-time view of a session, without the entries themselves.
type State struct {
	ID                  string         `json:"id"`
	Filters             filter.Filters `json:"filters"`
	Ready               bool           `json:"ready"`
	Total               int            `json:"total"`
	Loading             bool           `json:"loading"`
	RunID               uint64         `json:"runId"`
	Version             uint64         `json:"version"`
	PrimaryCollectionID *int           `json:"primaryCollectionId,omitempty"`
	BoundaryCrossed     bool           `json:"boundaryCrossed"`
	Error               string         `json:"error,omitempty"`
}

// Session is a search state container. Every filter change starts a new aggregation run;
// results of superseded runs are dropped without touching the published state.
type Session struct {
	id     string
	agg    Aggregator
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	notifyMu  sync.Mutex
	delivered uint64

	mu          sync.Mutex
	version     uint64
	filters     filter.Filters
	entries     []entry.Entry
	result      search.Result
	loading     bool
	err         error
	runID       uint64
	pending     chan struct{}
	subscribers map[int]func(State)
	nextSub     int
	lastAccess  time.Time
}

// New creates a session with the given initial selection. A ready selection starts a run immediately.
func New(id string, agg Aggregator, initial filter.Filters, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session_id", id))
	ctx, cancel := context.WithCancel(logger.ContextWithLogger(context.Background(), log))

	done := make(chan struct{})
	close(done)

	s := &Session{
		id:          id,
		agg:         agg,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
		filters:     initial,
		entries:     []entry.Entry{},
		pending:     done,
		subscribers: make(map[int]func(State)),
		lastAccess:  time.Now(),
	}
	if initial.Ready() {
		s.apply(initial)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Close stops in-flight runs. Pending fetches finish but their results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	s.runID++
	s.mu.Unlock()
	s.cancel()
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Filters returns the current selection.
func (s *Session) Filters() filter.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Entries returns a copy of the published entries.
func (s *Session) Entries() []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entry.Entry(nil), s.entries...)
}

// Subscribe registers fn for state changes and returns the function removing it.
// fn is called outside the session lock and must not block.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// SetSource selects the source language and drops it from the targets.
func (s *Session) SetSource(code domain.LanguageCode) State {
	return s.update(func(f filter.Filters) filter.Filters { return f.WithSource(code) })
}

// SetTargets replaces the target languages.
func (s *Session) SetTargets(codes []domain.LanguageCode) State {
	return s.update(func(f filter.Filters) filter.Filters { return f.WithTargets(codes) })
}

// ToggleTarget selects or deselects one target language.
// Deselecting the last remaining target is refused and reported as false.
func (s *Session) ToggleTarget(code domain.LanguageCode, selected bool) (State, bool) {
	accepted := true
	st := s.update(func(f filter.Filters) filter.Filters {
		next, ok := f.ToggleTarget(code, selected)
		accepted = ok
		return next
	})
	return st, accepted
}

// SetCollections replaces the collection selection.
func (s *Session) SetCollections(ids []int) State {
	return s.update(func(f filter.Filters) filter.Filters { return f.WithCollections(ids) })
}

// AddCollection adds one collection to the selection.
func (s *Session) AddCollection(id int) State {
	return s.update(func(f filter.Filters) filter.Filters { return f.AddCollection(id) })
}

// RemoveCollection removes one collection from the selection.
func (s *Session) RemoveCollection(id int) State {
	return s.update(func(f filter.Filters) filter.Filters { return f.RemoveCollection(id) })
}

// Refresh reruns the search for the current selection.
func (s *Session) Refresh() State {
	s.mu.Lock()
	s.lastAccess = time.Now()
	st, subs := s.apply(s.filters)
	s.mu.Unlock()
	s.notify(subs, st)
	return st
}

// FetchAll waits for in-flight aggregation and returns up to limit published entries
// together with the selection they were searched for. Both come from the same run,
// even when the selection changes while waiting.
// Returns no entries when the selection is not ready or limit is not positive.
func (s *Session) FetchAll(ctx context.Context, limit int) (filter.Filters, []entry.Entry, error) {
	for {
		s.mu.Lock()
		f := s.filters
		done := s.pending
		s.mu.Unlock()

		if limit <= 0 || !f.Ready() {
			return f, []entry.Entry{}, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return f, nil, ctx.Err() //nolint:wrapcheck // context error returned as is
		}

		s.mu.Lock()
		if s.pending != done {
			s.mu.Unlock()
			continue
		}
		f, runErr := s.filters, s.err
		n := min(limit, len(s.entries))
		entries := append([]entry.Entry(nil), s.entries[:n]...)
		s.mu.Unlock()

		if runErr != nil {
			return f, nil, runErr
		}
		return f, entries, nil
	}
}

// Wait blocks until the current run has finished or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		done := s.pending
		s.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck // context error returned as is
		}

		s.mu.Lock()
		same := s.pending == done
		s.mu.Unlock()
		if same {
			return nil
		}
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Session) update(mutate func(filter.Filters) filter.Filters) State {
	s.mu.Lock()
	s.lastAccess = time.Now()
	next := mutate(s.filters)
	if next.Equal(s.filters) {
		st := s.stateLocked()
		s.mu.Unlock()
		return st
	}
	st, subs := s.apply(next)
	s.mu.Unlock()
	s.notify(subs, st)
	return st
}

// apply installs a selection and starts a run for it. Callers hold s.mu.
func (s *Session) apply(f filter.Filters) (State, []func(State)) {
	s.filters = f
	s.runID++
	s.version++
	s.entries = []entry.Entry{}
	s.result = search.Result{}
	s.err = nil

	if !f.Ready() {
		s.loading = false
		return s.stateLocked(), s.subscribersLocked()
	}

	s.loading = true
	done := make(chan struct{})
	s.pending = done
	go s.run(s.runID, f, done)
	s.logger.Debug("search run started", zap.Uint64("run_id", s.runID))
	return s.stateLocked(), s.subscribersLocked()
}

func (s *Session) run(runID uint64, f filter.Filters, done chan struct{}) {
	defer close(done)

	ctx := logger.WithFields(s.ctx, zap.Uint64("run_id", runID))
	res, err := s.agg.Aggregate(ctx, f,
		search.WithStaleCheck(func() bool { return !s.isCurrent(runID) }),
		search.WithFirstPage(func(first search.Result) { s.publish(runID, first, first.More, nil) }),
	)
	if errors.Is(err, domain.ErrStaleRun) {
		s.logger.Debug("search run superseded", zap.Uint64("run_id", runID))
		return
	}
	if err != nil {
		s.logger.Warn("search run failed", zap.Uint64("run_id", runID), zap.Error(err))
		s.fail(runID, err)
		return
	}
	s.publish(runID, res, false, nil)
}

func (s *Session) isCurrent(runID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID == runID
}

func (s *Session) publish(runID uint64, res search.Result, loading bool, err error) {
	s.mu.Lock()
	if s.runID != runID {
		s.mu.Unlock()
		return
	}
	s.entries = res.Entries
	if s.entries == nil {
		s.entries = []entry.Entry{}
	}
	s.result = res
	s.loading = loading
	s.err = err
	s.version++
	st, subs := s.stateLocked(), s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, st)
}

// fail keeps the last published entries and records the error.
func (s *Session) fail(runID uint64, err error) {
	s.mu.Lock()
	if s.runID != runID {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.err = err
	s.version++
	st, subs := s.stateLocked(), s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, st)
}

func (s *Session) stateLocked() State {
	st := State{
		ID:                  s.id,
		Filters:             s.filters,
		Ready:               s.filters.Ready(),
		Total:               len(s.entries),
		Loading:             s.loading,
		RunID:               s.runID,
		Version:             s.version,
		PrimaryCollectionID: s.result.PrimaryCollectionID,
		BoundaryCrossed:     s.result.BoundaryCrossed,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

func (s *Session) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// notify delivers st unless a newer state was already delivered.
func (s *Session) notify(subs []func(State), st State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if st.Version <= s.delivered {
		return
	}
	s.delivered = st.Version
	for _, fn := range subs {
		fn(st)
	}
}
