package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	exportuc "github.com/kailas-cloud/termdeck/internal/usecase/export"
	healthuc "github.com/kailas-cloud/termdeck/internal/usecase/health"
	sessionuc "github.com/kailas-cloud/termdeck/internal/usecase/session"
)

const defaultHeartbeat = 15 * time.Second

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// CollectionCatalog lists the subject collections for a source language.
type CollectionCatalog interface {
	FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error)
}

// Server serves the deck session API.
type Server struct {
	catalog       CollectionCatalog
	sessions      *sessionuc.Registry
	export        *exportuc.Service
	health        *healthuc.Service
	validator     *requestValidator
	logger        *zap.Logger
	heartbeat     time.Duration
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog CollectionCatalog,
	sessions *sessionuc.Registry,
	export *exportuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:   catalog,
		sessions:  sessions,
		export:    export,
		health:    health,
		validator: newRequestValidator(),
		logger:    logger,
		heartbeat: defaultHeartbeat,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrUnknownLanguage, http.StatusBadRequest, CodeUnknownLanguage),
		sentinelHandler(domain.ErrTargetLocked, http.StatusConflict, CodeTargetLocked),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstreamError),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
	}
	return s
}

// WithHeartbeat sets the keep-alive interval of event streams.
func (s *Server) WithHeartbeat(d time.Duration) *Server {
	if d > 0 {
		s.heartbeat = d
	}
	return s
}

// Handler builds the router. Middlewares run in the given order, outermost first.
func (s *Server) Handler(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chirouter.NewRouter()
	r.Use(middlewares...)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/languages", s.ListLanguages)
	r.Get("/collections", s.ListCollections)
	r.Get("/deck", s.DownloadSelectionDeck)

	r.Route("/sessions", func(r chirouter.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{sessionID}", func(r chirouter.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/source", s.SetSource)
			r.Put("/targets", s.SetTargets)
			r.Put("/targets/{code}", s.ToggleTarget)
			r.Put("/collections", s.SetCollections)
			r.Post("/collections/{collectionID}", s.AddCollection)
			r.Delete("/collections/{collectionID}", s.RemoveCollection)
			r.Post("/refresh", s.RefreshSession)
			r.Get("/entries", s.ListEntries)
			r.Get("/events", s.StreamEvents)
			r.Get("/export", s.DownloadSessionDeck)
		})
	})
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListLanguages handles GET /languages.
func (s *Server) ListLanguages(w http.ResponseWriter, _ *http.Request) {
	options := domain.LanguageOptions()
	items := make([]LanguageResponse, len(options))
	for i, o := range options {
		items[i] = languageToResponse(o)
	}
	writeJSON(w, http.StatusOK, items)
}

// ListCollections handles GET /collections?source=IT&q=term.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	var sourceParam, term string
	if err := bindQuery(r, "source", &sourceParam); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := bindQuery(r, "q", &term); err != nil {
		s.handleDomainError(w, err)
		return
	}

	source := s.sessions.Defaults().Source
	if sourceParam != "" {
		code, err := domain.ParseLanguage(sourceParam)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		source = code
	}

	cols, err := s.catalog.FetchCollections(r.Context(), source)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matched := collection.Match(collection.SortByName(cols), term)
	items := make([]CollectionResponse, len(matched))
	for i, c := range matched {
		items[i] = collectionToResponse(c)
	}
	writeJSON(w, http.StatusOK, items)
}

// bindQuery binds an optional form-style query parameter. Repeated keys fill slices.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return &ValidationError{Fields: map[string]string{name: "is invalid"}}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrUnknownLanguage,
		domain.ErrTargetLocked,
		domain.ErrInvalidRequest,
		domain.ErrUpstream,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports per-field problems alongside the message.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeValidationFailed,
		Message: ve.Error(),
		Details: ve.Fields,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
