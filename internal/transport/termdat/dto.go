package termdat

// Wire shapes of the terminology API. Every field is optional and lenient:
// nulls, absent fields and values of the wrong type are defaulted by the mappers.

// CollectionResponse is one item of GET /api/Collection.
type CollectionResponse struct {
	ID   Int    `json:"id"`
	Code String `json:"code"`
	Name String `json:"name"`
	Text String `json:"text"`
}

// EntryLanguageDetailResponse is a language rendering inside an entry detail response.
type EntryLanguageDetailResponse struct {
	ID              Int    `json:"id"`
	LanguageIsoCode String `json:"languageIsoCode"`
	Terminus        String `json:"terminus"`
	Name            String `json:"name"`
	Phraseology     String `json:"phraseology"`
	Abbreviation    String `json:"abbreviation"`
	Definition      String `json:"definition"`
	Note            String `json:"note"`
	Context         String `json:"context"`
}

// EntryDetailResponse is a single entry with ISO-coded language details.
type EntryDetailResponse struct {
	ID              Int                               `json:"id"`
	URL             String                            `json:"url"`
	Collection      Object[CollectionResponse]        `json:"collection"`
	LanguageDetails List[EntryLanguageDetailResponse] `json:"languageDetails"`
}

// SearchTermResponse is one term of a search entry, keyed by numeric language id.
type SearchTermResponse struct {
	LanguageID   Int    `json:"languageId"`
	Sequence     Int    `json:"sequence"`
	Terminus     String `json:"terminus"`
	Name         String `json:"name"`
	Abbreviation String `json:"abbreviation"`
	Phraseology  String `json:"phraseology"`
	Definition   String `json:"definition"`
	Note         String `json:"note"`
	Context      String `json:"context"`
}

// SearchEntryResponse is one hit of GET /api/Search/Search.
type SearchEntryResponse struct {
	ID         Int                        `json:"id"`
	URL        String                     `json:"url"`
	Collection Object[CollectionResponse] `json:"collection"`
	Terms      List[SearchTermResponse]   `json:"terms"`
}

// SearchResponse is the body of GET /api/Search/Search.
type SearchResponse struct {
	SearchEntries List[SearchEntryResponse] `json:"searchEntries"`
}
