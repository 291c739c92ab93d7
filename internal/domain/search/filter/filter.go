// Package filter holds the user's search selection: source language,
// target languages and collection ids.
package filter

import (
	"slices"

	"github.com/samber/lo"

	"github.com/kailas-cloud/termdeck/internal/domain"
)

// Filters is a transient, value-typed search selection.
// Every With*/Add*/Remove* method returns a new value.
type Filters struct {
	Source      domain.LanguageCode   `json:"sourceLanguage"`
	Targets     []domain.LanguageCode `json:"targetLanguages"`
	Collections []int                 `json:"collections"`
}

// Default returns the selection a fresh session starts with.
func Default() Filters {
	return Filters{
		Source:      domain.DefaultSource,
		Targets:     domain.DefaultTargets(),
		Collections: []int{},
	}
}

// New builds a normalized selection: targets deduplicated and disjoint from the source,
// collection ids deduplicated.
func New(source domain.LanguageCode, targets []domain.LanguageCode, collections []int) Filters {
	return Filters{Source: source}.WithTargets(targets).WithCollections(collections)
}

// Ready reports whether both the collection and the target selection are non-empty.
func (f Filters) Ready() bool {
	return len(f.Collections) > 0 && len(f.Targets) > 0
}

// WithSource selects a new source language and removes it from the targets.
// Selecting the current source is a no-op.
func (f Filters) WithSource(code domain.LanguageCode) Filters {
	if code == f.Source {
		return f
	}
	out := f.clone()
	out.Source = code
	out.Targets = lo.Without(out.Targets, code)
	return out
}

// WithTargets replaces the target selection. Duplicates and the source code are dropped,
// first-occurrence order is kept.
func (f Filters) WithTargets(codes []domain.LanguageCode) Filters {
	out := f.clone()
	out.Targets = lo.Without(lo.Uniq(codes), f.Source)
	if out.Targets == nil {
		out.Targets = []domain.LanguageCode{}
	}
	return out
}

// ToggleTarget selects or deselects one target language.
// The last remaining target cannot be deselected; ok is false when the change was refused.
func (f Filters) ToggleTarget(code domain.LanguageCode, selected bool) (_ Filters, ok bool) {
	if selected {
		if code == f.Source || slices.Contains(f.Targets, code) {
			return f, true
		}
		out := f.clone()
		out.Targets = append(out.Targets, code)
		return out, true
	}
	if !slices.Contains(f.Targets, code) {
		return f, true
	}
	if len(f.Targets) <= 1 {
		return f, false
	}
	out := f.clone()
	out.Targets = lo.Without(out.Targets, code)
	return out, true
}

// TargetLocked reports whether code is the only selected target.
func (f Filters) TargetLocked(code domain.LanguageCode) bool {
	return len(f.Targets) == 1 && f.Targets[0] == code
}

// WithCollections replaces the collection selection, deduplicated in first-occurrence order.
func (f Filters) WithCollections(ids []int) Filters {
	out := f.clone()
	out.Collections = lo.Uniq(ids)
	if out.Collections == nil {
		out.Collections = []int{}
	}
	return out
}

// AddCollection appends id unless it is already selected.
func (f Filters) AddCollection(id int) Filters {
	if slices.Contains(f.Collections, id) {
		return f
	}
	out := f.clone()
	out.Collections = append(out.Collections, id)
	return out
}

// RemoveCollection drops id from the selection.
func (f Filters) RemoveCollection(id int) Filters {
	out := f.clone()
	out.Collections = lo.Without(out.Collections, id)
	return out
}

// AllowedCollections returns the selected ids as a set.
func (f Filters) AllowedCollections() map[int]struct{} {
	set := make(map[int]struct{}, len(f.Collections))
	for _, id := range f.Collections {
		set[id] = struct{}{}
	}
	return set
}

// Equal reports whether two selections are identical, order included.
func (f Filters) Equal(o Filters) bool {
	return f.Source == o.Source &&
		slices.Equal(f.Targets, o.Targets) &&
		slices.Equal(f.Collections, o.Collections)
}

func (f Filters) clone() Filters {
	return Filters{
		Source:      f.Source,
		Targets:     slices.Clone(f.Targets),
		Collections: slices.Clone(f.Collections),
	}
}
