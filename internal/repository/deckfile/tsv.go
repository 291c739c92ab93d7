// Package deckfile serializes deck rows to tab-separated flashcard files.
package deckfile

import (
	"strings"

	"github.com/kailas-cloud/termdeck/internal/domain/deck"
)

const (
	// Extension is appended to file names that lack it.
	Extension = ".tsv"
	// ContentType is the media type of an encoded deck.
	ContentType = "text/tab-separated-values;charset=utf-8"

	bom          = "\uFEFF"
	fieldSep     = "\t"
	rowSep       = "\r\n"
	quoteTrigger = "\t\r\n\""
)

// Encode renders rows as a BOM-prefixed, CRLF-separated TSV document.
// Trailing blank fields are dropped per row. Returns nil for no rows.
func Encode(rows []deck.Row) []byte {
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(bom)
	for i, row := range rows {
		if i > 0 {
			b.WriteString(rowSep)
		}
		fields := trimTrailingEmpty([]string{row.Front, row.Back, row.Definition, row.URL})
		for j, field := range fields {
			if j > 0 {
				b.WriteString(fieldSep)
			}
			b.WriteString(escapeField(field))
		}
	}
	return []byte(b.String())
}

// EnsureExtension appends .tsv unless name already ends with it.
func EnsureExtension(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

func trimTrailingEmpty(fields []string) []string {
	n := len(fields)
	for n > 0 && strings.TrimSpace(fields[n-1]) == "" {
		n--
	}
	return fields[:n]
}

func escapeField(v string) string {
	if !strings.ContainsAny(v, quoteTrigger) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
