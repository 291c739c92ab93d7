package termdeck

import "github.com/kailas-cloud/termdeck/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUpstream        = domain.ErrUpstream
	ErrUnknownLanguage = domain.ErrUnknownLanguage
)
