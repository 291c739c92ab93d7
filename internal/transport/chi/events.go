package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/logger"
	sessionuc "github.com/kailas-cloud/termdeck/internal/usecase/session"
)

// Event types written to session streams.
const (
	EventState     = "state"
	EventHeartbeat = "heartbeat"
	EventClosed    = "closed"
)

const eventBuffer = 16

// StreamEvents handles GET /sessions/{sessionID}/events as a server-sent event stream.
// The current state is sent first, then every change until the client leaves or the session closes.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if r.Context().Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})
	if err := rc.Flush(); err != nil {
		s.logger.Error("streaming not supported", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "streaming not supported")
		return
	}

	log := logger.FromContext(r.Context()).With(zap.String("session_id", sess.ID()))

	states := make(chan sessionuc.State, eventBuffer)
	unsubscribe := sess.Subscribe(func(st sessionuc.State) {
		for {
			select {
			case states <- st:
				return
			default:
			}
			// Full: drop the oldest pending state, the newest supersedes it.
			select {
			case <-states:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := sendEvent(w, rc, EventState, sessionToResponse(sess.Snapshot())); err != nil {
		log.Debug("client disconnected before first event", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case st := <-states:
			if err := sendEvent(w, rc, EventState, sessionToResponse(st)); err != nil {
				log.Debug("client disconnected during send", zap.Error(err))
				return
			}
		case now := <-heartbeat.C:
			if err := sendEvent(w, rc, EventHeartbeat, map[string]time.Time{"time": now.UTC()}); err != nil {
				log.Debug("client disconnected during heartbeat", zap.Error(err))
				return
			}
		case <-sess.Done():
			_ = sendEvent(w, rc, EventClosed, map[string]string{"id": sess.ID()})
			return
		case <-ctx.Done():
			return
		}
	}
}

func sendEvent(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}
	return nil
}
