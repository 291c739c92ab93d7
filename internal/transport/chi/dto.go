package chi

import (
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/usecase/session"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeSessionNotFound  ErrorCode = "session_not_found"
	CodeUnknownLanguage  ErrorCode = "unknown_language"
	CodeTargetLocked     ErrorCode = "target_locked"
	CodeUpstreamError    ErrorCode = "upstream_error"
	CodeTimeout          ErrorCode = "timeout"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// LanguageResponse describes a selectable language.
type LanguageResponse struct {
	Code  domain.LanguageCode `json:"code"`
	Label string              `json:"label"`
	ID    int                 `json:"id"`
}

// CollectionResponse describes a subject collection.
type CollectionResponse struct {
	ID    int    `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CreateSessionRequest is the optional body of POST /sessions. Omitted fields take the defaults.
type CreateSessionRequest struct {
	SourceLanguage  string   `json:"sourceLanguage" validate:"omitempty,len=2,alpha"`
	TargetLanguages []string `json:"targetLanguages" validate:"omitempty,dive,len=2,alpha"`
	Collections     []int    `json:"collections" validate:"omitempty,dive,gt=0"`
}

// SourceRequest is the body of PUT /sessions/{id}/source.
type SourceRequest struct {
	SourceLanguage string `json:"sourceLanguage" validate:"required,len=2,alpha"`
}

// TargetsRequest is the body of PUT /sessions/{id}/targets.
type TargetsRequest struct {
	TargetLanguages []string `json:"targetLanguages" validate:"required,min=1,dive,len=2,alpha"`
}

// CollectionsRequest is the body of PUT /sessions/{id}/collections. An empty list clears the selection.
type CollectionsRequest struct {
	Collections []int `json:"collections" validate:"dive,gt=0"`
}

// SessionResponse is a session state with the target languages still selectable.
type SessionResponse struct {
	session.State
	AvailableTargets []LanguageResponse `json:"availableTargets"`
}

// EntriesResponse is the body of GET /sessions/{id}/entries.
type EntriesResponse struct {
	Entries []entry.Entry `json:"entries"`
	Total   int           `json:"total"`
	Loading bool          `json:"loading"`
}

func languageToResponse(o domain.LanguageOption) LanguageResponse {
	id, _ := domain.LanguageID(o.Code)
	return LanguageResponse{Code: o.Code, Label: o.Label, ID: id}
}

func collectionToResponse(c collection.Collection) CollectionResponse {
	return CollectionResponse{ID: c.ID, Code: c.Code, Name: c.Name, Label: c.Label()}
}

func sessionToResponse(st session.State) SessionResponse {
	options := domain.AvailableTargets(st.Filters.Source)
	targets := make([]LanguageResponse, len(options))
	for i, o := range options {
		targets[i] = languageToResponse(o)
	}
	return SessionResponse{State: st, AvailableTargets: targets}
}
