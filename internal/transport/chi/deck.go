package chi

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/termdeck/internal/repository/deckfile"
	exportuc "github.com/kailas-cloud/termdeck/internal/usecase/export"
)

// DownloadSessionDeck handles GET /sessions/{sessionID}/export.
// Waits for the session's search, then replies with the TSV deck, or 204 when it has no rows.
func (s *Server) DownloadSessionDeck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	d, err := s.export.Build(r.Context(), sess)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeDeck(w, d)
}

// DownloadSelectionDeck handles GET /deck?source=IT&targets=DE&targets=FR&collections=7.
// Runs a one-off search for the selection without creating a session.
func (s *Server) DownloadSelectionDeck(w http.ResponseWriter, r *http.Request) {
	var (
		source      string
		targets     []string
		collections []int
	)
	for name, dest := range map[string]any{"source": &source, "targets": &targets, "collections": &collections} {
		if err := bindQuery(r, name, dest); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	f, err := selectionFromParams(s.sessions.Defaults(), source, targets, collections)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	d, err := s.export.BuildSelection(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeDeck(w, d)
}

func writeDeck(w http.ResponseWriter, d exportuc.Deck) {
	if d.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	body := deckfile.Encode(d.Rows)
	w.Header().Set("Content-Type", deckfile.ContentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": deckfile.EnsureExtension(d.FileName)}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Deck-Entries", strconv.Itoa(d.Entries))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
