package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

// Registry owns the live sessions, keyed by uuid.
type Registry struct {
	agg      Aggregator
	defaults filter.Filters
	idleTTL  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry. New sessions start from defaults.
// A non-positive idleTTL disables expiry.
func NewRegistry(agg Aggregator, defaults filter.Filters, idleTTL time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		agg:      agg,
		defaults: defaults,
		idleTTL:  idleTTL,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Defaults returns the selection new sessions start from.
func (r *Registry) Defaults() filter.Filters {
	return r.defaults
}

// Create starts a new session from the defaults, overridden by initial when it is non-nil.
func (r *Registry) Create(initial *filter.Filters) *Session {
	f := r.defaults
	if initial != nil {
		f = *initial
	}
	s := New(uuid.NewString(), r.agg, f, r.logger)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("session_id", s.ID()))
	return s
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle since before now minus the idle TTL. Returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
		r.logger.Info("session expired", zap.String("session_id", s.ID()))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
