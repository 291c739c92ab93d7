package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream signals a failed call to the terminology API.
	ErrUpstream = errors.New("terminology api error")
	// ErrStaleRun signals that an aggregation run was superseded by a newer filter set.
	ErrStaleRun = errors.New("stale aggregation run")
	// ErrUnknownLanguage signals a language code outside the supported list.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrSessionNotFound signals a missing deck session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotReady signals an empty collection or target-language selection.
	ErrNotReady = errors.New("filters not ready")
	// ErrInvalidRequest signals a malformed or incomplete request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTargetLocked signals an attempt to deselect the last target language.
	ErrTargetLocked = errors.New("last target language cannot be deselected")
)

// UpstreamStatusError carries the HTTP status returned by the terminology API.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstream.Error(), e.Endpoint, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstream }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(endpoint string, statusCode int) error {
	return &UpstreamStatusError{Endpoint: endpoint, StatusCode: statusCode}
}
