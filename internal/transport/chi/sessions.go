package chi

import (
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	sessionuc "github.com/kailas-cloud/termdeck/internal/usecase/session"
)

// CreateSession handles POST /sessions. The body is optional.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decodeBody(r, &req, true); err != nil {
		s.handleDomainError(w, err)
		return
	}

	initial, err := selectionFromParams(s.sessions.Defaults(), req.SourceLanguage, req.TargetLanguages, req.Collections)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sess := s.sessions.Create(&initial)
	writeJSON(w, http.StatusCreated, sessionToResponse(sess.Snapshot()))
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess.Snapshot()))
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chirouter.URLParam(r, "sessionID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSource handles PUT /sessions/{sessionID}/source.
func (s *Server) SetSource(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req SourceRequest
	if err := s.decodeBody(r, &req, false); err != nil {
		s.handleDomainError(w, err)
		return
	}
	code, err := domain.ParseLanguage(req.SourceLanguage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess.SetSource(code)))
}

// SetTargets handles PUT /sessions/{sessionID}/targets.
// The source language is dropped from the list; at least one other target must remain.
func (s *Server) SetTargets(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req TargetsRequest
	if err := s.decodeBody(r, &req, false); err != nil {
		s.handleDomainError(w, err)
		return
	}
	codes, err := domain.ParseLanguages(req.TargetLanguages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if len(lo.Without(codes, sess.Filters().Source)) == 0 {
		s.handleDomainError(w, domain.ErrTargetLocked)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess.SetTargets(codes)))
}

// ToggleTarget handles PUT /sessions/{sessionID}/targets/{code}?selected=true|false.
func (s *Server) ToggleTarget(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	code, err := domain.ParseLanguage(chirouter.URLParam(r, "code"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	selected := true
	if err := bindQuery(r, "selected", &selected); err != nil {
		s.handleDomainError(w, err)
		return
	}

	st, accepted := sess.ToggleTarget(code, selected)
	if !accepted {
		s.handleDomainError(w, domain.ErrTargetLocked)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(st))
}

// SetCollections handles PUT /sessions/{sessionID}/collections.
func (s *Server) SetCollections(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req CollectionsRequest
	if err := s.decodeBody(r, &req, false); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess.SetCollections(req.Collections)))
}

// AddCollection handles POST /sessions/{sessionID}/collections/{collectionID}.
func (s *Server) AddCollection(w http.ResponseWriter, r *http.Request) {
	s.withCollectionID(w, r, (*sessionuc.Session).AddCollection)
}

// RemoveCollection handles DELETE /sessions/{sessionID}/collections/{collectionID}.
func (s *Server) RemoveCollection(w http.ResponseWriter, r *http.Request) {
	s.withCollectionID(w, r, (*sessionuc.Session).RemoveCollection)
}

// RefreshSession handles POST /sessions/{sessionID}/refresh.
func (s *Server) RefreshSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess.Refresh()))
}

// ListEntries handles GET /sessions/{sessionID}/entries?limit=&wait=.
// Without wait the currently published entries are returned, possibly while loading.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	limit := s.export.Limit()
	wait := false
	if err := bindQuery(r, "limit", &limit); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := bindQuery(r, "wait", &wait); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if limit < 0 {
		s.handleDomainError(w, &ValidationError{Fields: map[string]string{"limit": "must not be negative"}})
		return
	}

	if wait {
		_, entries, err := sess.FetchAll(r.Context(), limit)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		st := sess.Snapshot()
		writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries, Total: st.Total, Loading: st.Loading})
		return
	}

	st := sess.Snapshot()
	entries := sess.Entries()
	if len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries, Total: st.Total, Loading: st.Loading})
}

func (s *Server) withCollectionID(
	w http.ResponseWriter, r *http.Request, apply func(*sessionuc.Session, int) sessionuc.State,
) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chirouter.URLParam(r, "collectionID"))
	if err != nil || id <= 0 {
		s.handleDomainError(w, &ValidationError{Fields: map[string]string{"collectionID": "must be a positive integer"}})
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(apply(sess, id)))
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*sessionuc.Session, bool) {
	sess, err := s.sessions.Get(chirouter.URLParam(r, "sessionID"))
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return sess, true
}

// selectionFromParams overlays the given selection parts on defaults. Empty parts keep the default.
// Target lists accept comma-separated values.
func selectionFromParams(defaults filter.Filters, source string, targets []string, collections []int) (filter.Filters, error) {
	src := defaults.Source
	if source != "" {
		code, err := domain.ParseLanguage(source)
		if err != nil {
			return filter.Filters{}, err //nolint:wrapcheck // domain error
		}
		src = code
	}

	tgts := defaults.Targets
	if split := splitList(targets); len(split) > 0 {
		codes, err := domain.ParseLanguages(split)
		if err != nil {
			return filter.Filters{}, err //nolint:wrapcheck // domain error
		}
		tgts = codes
	}

	cols := defaults.Collections
	if len(collections) > 0 {
		cols = collections
	}
	return filter.New(src, tgts, cols), nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
