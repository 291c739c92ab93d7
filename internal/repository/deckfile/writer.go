package deckfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain/deck"
)

// StdoutDir makes the writer emit the deck on its stdout stream instead of a file.
const StdoutDir = "-"

// Writer saves encoded decks into a directory.
type Writer struct {
	dir    string
	stdout io.Writer
	logger *zap.Logger
}

// NewWriter creates a deck writer for dir. An empty dir means the working directory.
func NewWriter(dir string, stdout io.Writer, logger *zap.Logger) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, stdout: stdout, logger: logger}
}

// Export writes rows to <dir>/<fileName>.tsv and returns the written path.
// Writing no rows is a no-op that returns an empty path.
func (w *Writer) Export(fileName string, rows []deck.Row) (string, error) {
	if len(rows) == 0 {
		w.logger.Info("no deck rows to export", zap.String("file", fileName))
		return "", nil
	}
	data := Encode(rows)
	name := EnsureExtension(fileName)

	if w.dir == StdoutDir {
		if _, err := w.stdout.Write(data); err != nil {
			return "", fmt.Errorf("write deck to stdout: %w", err)
		}
		return StdoutDir, nil
	}

	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // deck files are meant to be shared
		return "", fmt.Errorf("write deck %s: %w", path, err)
	}
	w.logger.Info("deck exported", zap.String("path", path), zap.Int("rows", len(rows)))
	return path, nil
}
