package domain

// KeyPrefix namespaces every key this service writes to the cache store.
const KeyPrefix = "termdeck:"

// Defaults shared by the CLI, the HTTP server and the session registry.
const (
	DefaultPageSize    = 100
	DefaultExportLimit = 5000
	DefaultSource      = LanguageIT
)

// DefaultTargets returns the target selection a fresh session starts with.
func DefaultTargets() []LanguageCode {
	return []LanguageCode{LanguageDE}
}
