// Package collection models the subject-domain groupings returned by the terminology API.
package collection

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collection is a subject-domain grouping of entries. Immutable once fetched.
type Collection struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label renders the collection the way selection chips show it.
func (c Collection) Label() string {
	return c.Name + " (" + c.Code + ")"
}

// SortByName returns a copy of cols ordered by name using locale collation.
func SortByName(cols []Collection) []Collection {
	out := slices.Clone(cols)
	// Collator is not safe for concurrent use, one per call.
	coll := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Collection) int {
		return coll.CompareString(a.Name, b.Name)
	})
	return out
}

// Match returns the collections whose name or code contains term, case-insensitively.
// A blank term matches everything.
func Match(cols []Collection, term string) []Collection {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return cols
	}
	out := make([]Collection, 0, len(cols))
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Code), term) {
			out = append(out, c)
		}
	}
	return out
}

// LabelFor returns the label of the collection with the given id,
// or the bare id when it is not among cols.
func LabelFor(cols []Collection, id int) string {
	for _, c := range cols {
		if c.ID == id {
			return c.Label()
		}
	}
	return strconv.Itoa(id)
}
