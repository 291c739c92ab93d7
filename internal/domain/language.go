package domain

import (
	"fmt"
	"strings"
)

// LanguageCode is an upper-case ISO 639-1 style code used by the terminology API.
type LanguageCode string

// Supported language codes.
const (
	LanguageDE LanguageCode = "DE"
	LanguageFR LanguageCode = "FR"
	LanguageIT LanguageCode = "IT"
	LanguageEN LanguageCode = "EN"
	LanguageRM LanguageCode = "RM"
	LanguageES LanguageCode = "ES"
	LanguagePT LanguageCode = "PT"
	LanguageZH LanguageCode = "ZH"
	LanguageCS LanguageCode = "CS"
	LanguageFI LanguageCode = "FI"
	LanguageNL LanguageCode = "NL"
	LanguagePL LanguageCode = "PL"
	LanguageSV LanguageCode = "SV"
	LanguageDA LanguageCode = "DA"
	LanguageEL LanguageCode = "EL"
	LanguageTR LanguageCode = "TR"
	LanguageHU LanguageCode = "HU"
	LanguageSK LanguageCode = "SK"
	LanguageSL LanguageCode = "SL"
	LanguageHR LanguageCode = "HR"
	LanguageNO LanguageCode = "NO"
	LanguageIS LanguageCode = "IS"
	LanguageLA LanguageCode = "LA"
	LanguageKR LanguageCode = "KR"
)

// FallbackLanguage is assumed when a detail response carries no ISO code.
const FallbackLanguage = LanguageDE

var knownLanguages = map[LanguageCode]struct{}{
	LanguageDE: {}, LanguageFR: {}, LanguageIT: {}, LanguageEN: {}, LanguageRM: {}, LanguageES: {},
	LanguagePT: {}, LanguageZH: {}, LanguageCS: {}, LanguageFI: {}, LanguageNL: {}, LanguagePL: {},
	LanguageSV: {}, LanguageDA: {}, LanguageEL: {}, LanguageTR: {}, LanguageHU: {}, LanguageSK: {},
	LanguageSL: {}, LanguageHR: {}, LanguageNO: {}, LanguageIS: {}, LanguageLA: {}, LanguageKR: {},
}

// Numeric language ids understood by the search endpoint.
var (
	languageIDByCode = map[LanguageCode]int{
		LanguageDE: 2,
		LanguageEN: 3,
		LanguageFR: 6,
		LanguageIT: 7,
	}
	languageCodeByID = map[int]LanguageCode{
		2: LanguageDE,
		3: LanguageEN,
		6: LanguageFR,
		7: LanguageIT,
	}
)

// IsValid reports whether the code is in the supported list.
func (c LanguageCode) IsValid() bool {
	_, ok := knownLanguages[c]
	return ok
}

// Lower returns the lower-case form used in file names.
func (c LanguageCode) Lower() string { return strings.ToLower(string(c)) }

// ParseLanguage normalizes s to upper case and checks it against the supported list.
func ParseLanguage(s string) (LanguageCode, error) {
	code := LanguageCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return code, nil
}

// ParseLanguages parses every element of ss, failing on the first unknown code.
func ParseLanguages(ss []string) ([]LanguageCode, error) {
	out := make([]LanguageCode, 0, len(ss))
	for _, s := range ss {
		code, err := ParseLanguage(s)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

// LanguageID resolves the numeric API id of a code.
// Codes outside the id table cannot be used as API-level selectors.
func LanguageID(c LanguageCode) (int, bool) {
	id, ok := languageIDByCode[c]
	return id, ok
}

// LanguageByID resolves a numeric API id back to its code.
func LanguageByID(id int) (LanguageCode, bool) {
	c, ok := languageCodeByID[id]
	return c, ok
}

// LanguageOption is a selectable language with its display label.
type LanguageOption struct {
	Code  LanguageCode `json:"code"`
	Label string       `json:"label"`
}

// LanguageOptions returns the languages offered as source or target, in display order.
func LanguageOptions() []LanguageOption {
	return []LanguageOption{
		{Code: LanguageDE, Label: "German"},
		{Code: LanguageFR, Label: "French"},
		{Code: LanguageIT, Label: "Italian"},
		{Code: LanguageEN, Label: "English"},
	}
}

// AvailableTargets returns the language options minus the source language.
func AvailableTargets(source LanguageCode) []LanguageOption {
	all := LanguageOptions()
	out := make([]LanguageOption, 0, len(all))
	for _, o := range all {
		if o.Code != source {
			out = append(out, o)
		}
	}
	return out
}
