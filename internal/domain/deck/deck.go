// Package deck reduces terminology entries to flashcard rows.
package deck

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
)

const (
	// Placeholder fills the back of a card when no target text exists.
	Placeholder = "—"
	// LineBreak separates target lines on the back of a card.
	LineBreak = "<br>"
)

// Row is one flashcard. Write-once, consumed only by exporters.
type Row struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	Definition string `json:"definition"`
	URL        string `json:"url"`
}

// BuildRows maps entries to rows for the given source and target languages.
// Targets equal to the source are ignored. Entries with neither source text nor any
// target text are dropped.
func BuildRows(entries []entry.Entry, source domain.LanguageCode, targets []domain.LanguageCode) []Row {
	if len(entries) == 0 {
		return []Row{}
	}
	normalized := normalizeTargets(source, targets)

	rows := make([]Row, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		srcDetail, hasSrc := e.Detail(source)

		row := Row{
			Front:      summarize(srcDetail, hasSrc),
			Definition: extractDefinition(srcDetail, hasSrc),
			URL:        CleanInline(e.URL),
		}

		lines := lo.FilterMap(normalized, func(code domain.LanguageCode, _ int) (string, bool) {
			d, ok := e.Detail(code)
			text := summarize(d, ok)
			if text == "" {
				return "", false
			}
			return string(code) + ": " + text, true
		})
		row.Back = joinLines(lines)
		if row.Front == "" && row.Back == "" {
			continue
		}
		if row.Back == "" {
			row.Back = Placeholder
		}
		rows = append(rows, row)
	}
	return rows
}

// FileName derives the export file name, e.g. termdat-it-to-de-fr.tsv.
// Target order is preserved; "deck" stands in when no target remains.
func FileName(source domain.LanguageCode, targets []domain.LanguageCode) string {
	normalized := normalizeTargets(source, targets)
	segment := "deck"
	if len(normalized) > 0 {
		segment = strings.Join(lo.Map(normalized, func(c domain.LanguageCode, _ int) string {
			return c.Lower()
		}), "-")
	}
	return "termdat-" + source.Lower() + "-to-" + segment + ".tsv"
}

// CleanInline collapses runs of Unicode whitespace (NBSP, thin space and BOM included)
// to single spaces and trims the result.
func CleanInline(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.FieldsFunc(s, isInlineSpace), " ")
}

func isInlineSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func normalizeTargets(source domain.LanguageCode, targets []domain.LanguageCode) []domain.LanguageCode {
	return lo.Uniq(lo.Without(targets, source))
}

// summarize picks the first non-empty of terminus, name, phraseology, abbreviation, definition, note.
func summarize(d entry.LanguageDetail, ok bool) string {
	if !ok {
		return ""
	}
	return CleanInline(firstNonEmpty(d.Terminus, d.Name, d.Phraseology, d.Abbreviation, d.Definition, d.Note))
}

func extractDefinition(d entry.LanguageDetail, ok bool) string {
	if !ok {
		return ""
	}
	return CleanInline(firstNonEmpty(d.Definition, d.Context, d.Note))
}

func joinLines(lines []string) string {
	cleaned := lo.FilterMap(lines, func(l string, _ int) (string, bool) {
		l = CleanInline(l)
		return l, l != ""
	})
	return strings.Join(cleaned, LineBreak)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
