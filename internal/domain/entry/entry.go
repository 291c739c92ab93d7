// Package entry models terminology records and their per-language renderings.
package entry

import (
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
)

// LanguageDetail is one language's rendering of a term.
// Optional text fields are empty strings when absent.
type LanguageDetail struct {
	ID           int                 `json:"id"`
	LanguageCode domain.LanguageCode `json:"languageCode"`
	Terminus     string              `json:"terminus,omitempty"`
	Name         string              `json:"name,omitempty"`
	Phraseology  string              `json:"phraseology,omitempty"`
	Abbreviation string              `json:"abbreviation,omitempty"`
	Definition   string              `json:"definition,omitempty"`
	Note         string              `json:"note,omitempty"`
	Context      string              `json:"context,omitempty"`
	URL          string              `json:"url,omitempty"`
}

// Entry is a terminology record. It owns its language details,
// at most one per language code.
type Entry struct {
	ID              int                    `json:"id"`
	URL             string                 `json:"url"`
	Collection      *collection.Collection `json:"collection,omitempty"`
	LanguageDetails []LanguageDetail       `json:"languageDetails"`
}

// Detail returns the language detail for code.
func (e *Entry) Detail(code domain.LanguageCode) (LanguageDetail, bool) {
	for _, d := range e.LanguageDetails {
		if d.LanguageCode == code {
			return d, true
		}
	}
	return LanguageDetail{}, false
}

// CollectionID returns the id of the owning collection; ok is false when
// the entry carries no collection.
func (e *Entry) CollectionID() (id int, ok bool) {
	if e.Collection == nil {
		return 0, false
	}
	return e.Collection.ID, true
}
