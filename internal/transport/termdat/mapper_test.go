package termdat

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/termdeck/internal/domain"
)

func TestMapCollection_NameFallsBackToText(t *testing.T) {
	var dto CollectionResponse
	if err := json.Unmarshal([]byte(`{"id":12,"code":"BK","text":"Banken"}`), &dto); err != nil {
		t.Fatal(err)
	}
	c := MapCollection(dto)
	if c.ID != 12 || c.Code != "BK" || c.Name != "Banken" {
		t.Errorf("unexpected collection: %+v", c)
	}
}

func TestMapCollection_MissingFieldsDefault(t *testing.T) {
	c := MapCollection(CollectionResponse{})
	if c.ID != 0 || c.Code != "" || c.Name != "" {
		t.Errorf("expected zero collection, got %+v", c)
	}
}

func TestMapCollections_SortedByName(t *testing.T) {
	var dtos []CollectionResponse
	raw := `[{"id":2,"code":"VK","name":"Verkehr"},{"id":1,"code":"AG","name":"Agrar"}]`
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		t.Fatal(err)
	}
	cols := MapCollections(dtos)
	if len(cols) != 2 || cols[0].Name != "Agrar" || cols[1].Name != "Verkehr" {
		t.Errorf("unexpected order: %+v", cols)
	}
}

func TestMapEntryDetail_IsoCodes(t *testing.T) {
	var dto EntryDetailResponse
	raw := `{
		"id": 7,
		"url": "https://example.test/entry/7",
		"collection": {"id": 3, "code": "JU", "name": "Justiz"},
		"languageDetails": [
			{"id": 70, "languageIsoCode": "it", "terminus": "mandato"},
			{"id": 71, "terminus": "Auftrag"}
		]
	}`
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		t.Fatal(err)
	}

	e := MapEntryDetail(dto)
	if e.ID != 7 || e.URL != "https://example.test/entry/7" {
		t.Errorf("unexpected entry header: %+v", e)
	}
	if e.Collection == nil || e.Collection.ID != 3 {
		t.Fatalf("expected collection 3, got %+v", e.Collection)
	}
	if len(e.LanguageDetails) != 2 {
		t.Fatalf("expected 2 details, got %d", len(e.LanguageDetails))
	}
	if e.LanguageDetails[0].LanguageCode != domain.LanguageIT {
		t.Errorf("expected IT, got %s", e.LanguageDetails[0].LanguageCode)
	}
	if e.LanguageDetails[1].LanguageCode != domain.FallbackLanguage {
		t.Errorf("expected fallback %s, got %s", domain.FallbackLanguage, e.LanguageDetails[1].LanguageCode)
	}
}

func TestMapSearchResponse(t *testing.T) {
	var payload SearchResponse
	raw := `{"searchEntries": [{
		"id": 1,
		"url": "https://example.test/1",
		"collection": {"id": 12, "code": "BK", "name": "Banken"},
		"terms": [
			{"languageId": 7, "sequence": 1, "terminus": "mandato"},
			{"languageId": 2, "sequence": 1, "terminus": "Auftrag"},
			{"languageId": 2, "sequence": 2, "terminus": "Mandat"},
			{"languageId": 99, "terminus": "unknown"},
			{"terminus": "no language"}
		]
	}, {
		"id": 2
	}]}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatal(err)
	}

	entries := MapSearchResponse(payload)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if len(first.LanguageDetails) != 2 {
		t.Fatalf("expected IT and DE only, got %+v", first.LanguageDetails)
	}
	de, ok := first.Detail(domain.LanguageDE)
	if !ok || de.Terminus != "Auftrag" {
		t.Errorf("expected first DE term to win, got %+v", de)
	}
	if de.ID != 2 {
		t.Errorf("expected detail id to carry the language id, got %d", de.ID)
	}
	if id, ok := first.CollectionID(); !ok || id != 12 {
		t.Errorf("expected collection 12, got %d (%v)", id, ok)
	}

	second := entries[1]
	if second.Collection != nil || len(second.LanguageDetails) != 0 {
		t.Errorf("expected empty second entry, got %+v", second)
	}
}

func TestMapSearchResponse_AtMostOneDetailPerLanguage(t *testing.T) {
	payload := SearchResponse{SearchEntries: List[SearchEntryResponse]{{
		Terms: List[SearchTermResponse]{
			{LanguageID: NewInt(7), Terminus: NewString("a")},
			{LanguageID: NewInt(7), Terminus: NewString("b")},
			{LanguageID: NewInt(2), Terminus: NewString("c")},
			{LanguageID: NewInt(2), Terminus: NewString("a")},
		},
	}}}

	e := MapSearchResponse(payload)[0]
	seen := map[domain.LanguageCode]int{}
	for _, d := range e.LanguageDetails {
		seen[d.LanguageCode]++
	}
	for code, n := range seen {
		if n != 1 {
			t.Errorf("language %s appears %d times", code, n)
		}
	}
}

func TestMapSearchResponse_MalformedFieldsDegrade(t *testing.T) {
	var payload SearchResponse
	raw := `{"searchEntries": [
		{"id": "2", "url": 42, "collection": {"id": "12", "name": ["x"]},
		 "terms": [{"languageId": "7", "terminus": {"a": 1}, "name": "mandato"}]},
		{"id": true, "collection": "BK", "terms": {"languageId": 2}},
		"garbage",
		{"id": 4, "terms": [17, {"languageId": 2, "terminus": "Auftrag"}]}
	]}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("lenient decode failed: %v", err)
	}

	entries := MapSearchResponse(payload)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.ID != 2 || first.URL != "42" {
		t.Errorf("unexpected first entry header: %+v", first)
	}
	if id, ok := first.CollectionID(); !ok || id != 12 {
		t.Fatalf("expected collection 12, got %d (%v)", id, ok)
	}
	if first.Collection.Name != "" {
		t.Errorf("expected empty collection name, got %q", first.Collection.Name)
	}
	d, ok := first.Detail(domain.LanguageIT)
	if !ok || d.Terminus != "" || d.Name != "mandato" {
		t.Errorf("unexpected IT detail: %+v", d)
	}

	second := entries[1]
	if second.ID != 0 || second.Collection != nil || len(second.LanguageDetails) != 0 {
		t.Errorf("expected defaulted second entry, got %+v", second)
	}
	if entries[2].ID != 0 || len(entries[2].LanguageDetails) != 0 {
		t.Errorf("expected zero entry for non-object item, got %+v", entries[2])
	}
	if d, ok := entries[3].Detail(domain.LanguageDE); !ok || d.Terminus != "Auftrag" {
		t.Errorf("unexpected DE detail: %+v", d)
	}
}

func TestMapCollections_MalformedItems(t *testing.T) {
	var dtos List[CollectionResponse]
	raw := `[{"id":"3","code":7,"name":null,"text":"Justiz"}, 5, {"id":1.0,"name":"Agrar"}]`
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		t.Fatalf("lenient decode failed: %v", err)
	}
	cols := MapCollections(dtos)
	if len(cols) != 3 {
		t.Fatalf("expected 3 collections, got %+v", cols)
	}
	byID := map[int]string{}
	for _, c := range cols {
		byID[c.ID] = c.Name + "/" + c.Code
	}
	if byID[3] != "Justiz/7" || byID[1] != "Agrar/" {
		t.Errorf("unexpected collections: %+v", cols)
	}
}
