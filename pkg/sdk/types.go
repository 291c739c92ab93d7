package termdeck

import (
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/deck"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

// Language is a supported language.
type Language struct {
	Code  string // "DE", "FR", "IT", "EN"
	Label string
	ID    int // numeric id used by the search endpoint
}

// Collection is a subject-domain grouping of entries.
type Collection struct {
	ID   int
	Code string
	Name string
}

// Label renders the collection as "Name (CODE)".
func (c Collection) Label() string {
	return c.Name + " (" + c.Code + ")"
}

// Term is one language's rendering of an entry. Absent fields are empty.
type Term struct {
	Language     string
	Terminus     string
	Name         string
	Phraseology  string
	Abbreviation string
	Definition   string
	Note         string
	Context      string
}

// Entry is a terminology record.
type Entry struct {
	ID           int
	URL          string
	CollectionID int // 0 when the entry carries no collection
	Terms        []Term
}

// Selection chooses what to search. Language codes are case-insensitive.
// The source language is dropped from Targets.
type Selection struct {
	Source      string
	Targets     []string
	Collections []int
}

// SearchResult is an aggregated, collection-windowed search.
type SearchResult struct {
	Entries             []Entry
	PrimaryCollectionID int // collection of the first hit, 0 when none
	BoundaryCrossed     bool
}

// Card is one flashcard row.
type Card struct {
	Front      string
	Back       string
	Definition string
	URL        string
}

// Deck is a set of cards with its suggested file name.
type Deck struct {
	FileName string
	Cards    []Card
	Entries  int
}

func (s Selection) toFilters() (filter.Filters, error) {
	source, err := domain.ParseLanguage(s.Source)
	if err != nil {
		return filter.Filters{}, err //nolint:wrapcheck // sentinel re-exported
	}
	targets, err := domain.ParseLanguages(s.Targets)
	if err != nil {
		return filter.Filters{}, err //nolint:wrapcheck // sentinel re-exported
	}
	return filter.New(source, targets, s.Collections), nil
}

func collectionFromDomain(c collection.Collection) Collection {
	return Collection{ID: c.ID, Code: c.Code, Name: c.Name}
}

func entryFromDomain(e entry.Entry) Entry {
	out := Entry{ID: e.ID, URL: e.URL, Terms: make([]Term, len(e.LanguageDetails))}
	if id, ok := e.CollectionID(); ok {
		out.CollectionID = id
	}
	for i, d := range e.LanguageDetails {
		out.Terms[i] = Term{
			Language:     string(d.LanguageCode),
			Terminus:     d.Terminus,
			Name:         d.Name,
			Phraseology:  d.Phraseology,
			Abbreviation: d.Abbreviation,
			Definition:   d.Definition,
			Note:         d.Note,
			Context:      d.Context,
		}
	}
	return out
}

func cardsFromRows(rows []deck.Row) []Card {
	cards := make([]Card, len(rows))
	for i, r := range rows {
		cards[i] = Card(r)
	}
	return cards
}

func rowsFromCards(cards []Card) []deck.Row {
	rows := make([]deck.Row, len(cards))
	for i, c := range cards {
		rows[i] = deck.Row(c)
	}
	return rows
}
