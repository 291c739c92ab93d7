package termdat

import (
	"strings"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
)

// MapCollection converts a collection payload. Name falls back to text.
func MapCollection(dto CollectionResponse) collection.Collection {
	name := dto.Name.Value
	if !dto.Name.Set {
		name = dto.Text.Value
	}
	return collection.Collection{
		ID:   dto.ID.Value,
		Code: dto.Code.Value,
		Name: name,
	}
}

// MapCollections converts a collection list and orders it by name.
func MapCollections(dtos []CollectionResponse) []collection.Collection {
	out := make([]collection.Collection, len(dtos))
	for i, dto := range dtos {
		out[i] = MapCollection(dto)
	}
	return collection.SortByName(out)
}

// MapEntryDetail converts an entry detail payload. Language codes come from the ISO code,
// upper-cased, DE when absent.
func MapEntryDetail(dto EntryDetailResponse) entry.Entry {
	details := make([]entry.LanguageDetail, 0, len(dto.LanguageDetails))
	for _, d := range dto.LanguageDetails {
		details = append(details, entry.LanguageDetail{
			ID:           d.ID.Value,
			LanguageCode: isoLanguage(d.LanguageIsoCode),
			Terminus:     d.Terminus.Value,
			Name:         d.Name.Value,
			Phraseology:  d.Phraseology.Value,
			Abbreviation: d.Abbreviation.Value,
			Definition:   d.Definition.Value,
			Note:         d.Note.Value,
			Context:      d.Context.Value,
		})
	}
	return entry.Entry{
		ID:              dto.ID.Value,
		URL:             dto.URL.Value,
		Collection:      mapOptionalCollection(dto.Collection),
		LanguageDetails: details,
	}
}

// MapSearchResponse converts a search page. Terms are deduplicated by language id
// (first occurrence wins); terms with an unknown language id are dropped.
func MapSearchResponse(payload SearchResponse) []entry.Entry {
	out := make([]entry.Entry, 0, len(payload.SearchEntries))
	for _, e := range payload.SearchEntries {
		out = append(out, mapSearchEntry(e))
	}
	return out
}

func mapSearchEntry(dto SearchEntryResponse) entry.Entry {
	seen := make(map[int]struct{}, len(dto.Terms))
	details := make([]entry.LanguageDetail, 0, len(dto.Terms))
	for _, term := range dto.Terms {
		if !term.LanguageID.Set {
			continue
		}
		languageID := term.LanguageID.Value
		if _, dup := seen[languageID]; dup {
			continue
		}
		seen[languageID] = struct{}{}

		if d, ok := mapSearchTerm(languageID, term); ok {
			details = append(details, d)
		}
	}
	return entry.Entry{
		ID:              dto.ID.Value,
		URL:             dto.URL.Value,
		Collection:      mapOptionalCollection(dto.Collection),
		LanguageDetails: details,
	}
}

func mapSearchTerm(languageID int, term SearchTermResponse) (entry.LanguageDetail, bool) {
	code, ok := domain.LanguageByID(languageID)
	if !ok {
		return entry.LanguageDetail{}, false
	}
	return entry.LanguageDetail{
		ID:           languageID,
		LanguageCode: code,
		Terminus:     term.Terminus.Value,
		Name:         term.Name.Value,
		Phraseology:  term.Phraseology.Value,
		Abbreviation: term.Abbreviation.Value,
		Definition:   term.Definition.Value,
		Note:         term.Note.Value,
		Context:      term.Context.Value,
	}, true
}

func mapOptionalCollection(dto Object[CollectionResponse]) *collection.Collection {
	if dto.Value == nil {
		return nil
	}
	c := MapCollection(*dto.Value)
	return &c
}

func isoLanguage(code String) domain.LanguageCode {
	if !code.Set {
		return domain.FallbackLanguage
	}
	return domain.LanguageCode(strings.ToUpper(code.Value))
}
