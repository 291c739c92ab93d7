package deckfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/termdeck/internal/domain/deck"
)

func TestEncode(t *testing.T) {
	rows := []deck.Row{
		{Front: "mandato", Back: "DE: Auftrag", URL: "https://x/1"},
		{Front: "banca", Back: "DE: Bank"},
	}

	got := string(Encode(rows))
	want := "\uFEFFmandato\tDE: Auftrag\t\thttps://x/1\r\nbanca\tDE: Bank"
	assert.Equal(t, want, got)
}

func TestEncode_Empty(t *testing.T) {
	assert.Nil(t, Encode(nil))
	assert.Nil(t, Encode([]deck.Row{}))
}

func TestEncode_TrimsTrailingBlankFields(t *testing.T) {
	rows := []deck.Row{{Front: "a", Back: "b", Definition: "  ", URL: ""}}
	assert.Equal(t, "\uFEFFa\tb", string(Encode(rows)))
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "plain text", "plain text"},
		{"tab", "a\tb", "\"a\tb\""},
		{"newline", "a\nb", "\"a\nb\""},
		{"carriage return", "a\rb", "\"a\rb\""},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"leading space", " x", " x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escapeField(tc.in))
		})
	}
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "deck.tsv", EnsureExtension("deck"))
	assert.Equal(t, "deck.tsv", EnsureExtension("deck.tsv"))
	assert.Equal(t, "deck.csv.tsv", EnsureExtension("deck.csv"))
}

func TestWriter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir, nil, nil)

	path, err := w.Export("termdat-it-to-de", []deck.Row{{Front: "a", Back: "DE: b"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "termdat-it-to-de.tsv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\uFEFFa\tDE: b", string(data))
}

func TestWriter_ExportNoRows(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil, nil)

	path, err := w.Export("empty.tsv", nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriter_ExportStdout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(StdoutDir, &buf, nil)

	path, err := w.Export("deck.tsv", []deck.Row{{Front: "x"}})
	require.NoError(t, err)
	assert.Equal(t, StdoutDir, path)
	assert.Equal(t, "\uFEFFx", buf.String())
}
