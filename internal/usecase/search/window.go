package search

import "github.com/kailas-cloud/termdeck/internal/domain/entry"

// Window is the part of a page that falls inside the allowed collection set.
type Window struct {
	Entries []entry.Entry
	// PrimaryCollectionID is the first allowed collection id seen, carried over from earlier pages.
	PrimaryCollectionID *int
	// BoundaryCrossed is set when any entry belongs to a collection outside the allowed set.
	BoundaryCrossed bool
}

// FilterWindow keeps the entries whose collection is in allowed. Entries without a collection are kept.
// primary is the collection id resolved by earlier pages, nil when none was seen yet.
func FilterWindow(entries []entry.Entry, allowed map[int]struct{}, primary *int) Window {
	w := Window{
		Entries:             make([]entry.Entry, 0, len(entries)),
		PrimaryCollectionID: primary,
	}
	for _, e := range entries {
		id, ok := e.CollectionID()
		if !ok {
			w.Entries = append(w.Entries, e)
			continue
		}
		if _, in := allowed[id]; !in {
			w.BoundaryCrossed = true
			continue
		}
		if w.PrimaryCollectionID == nil {
			w.PrimaryCollectionID = &id
		}
		w.Entries = append(w.Entries, e)
	}
	return w
}
