package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/deck"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/logger"
)

// Deck is a built flashcard deck ready to be written.
type Deck struct {
	FileName string
	Rows     []deck.Row
	Entries  int
}

// Empty reports whether the deck has no rows.
func (d Deck) Empty() bool { return len(d.Rows) == 0 }

// Service turns aggregated entries into flashcard decks.
type Service struct {
	agg   Aggregator
	limit int
}

// New creates an export service. A non-positive limit falls back to domain.DefaultExportLimit.
func New(agg Aggregator, limit int) *Service {
	if limit <= 0 {
		limit = domain.DefaultExportLimit
	}
	return &Service{agg: agg, limit: limit}
}

// Limit returns the maximum number of entries exported.
func (s *Service) Limit() int { return s.limit }

// Build waits for the source's pending search and maps up to the limit of its entries to rows.
func (s *Service) Build(ctx context.Context, src EntrySource) (Deck, error) {
	f, entries, err := src.FetchAll(ctx, s.limit)
	if err != nil {
		return Deck{}, fmt.Errorf("fetch entries: %w", err)
	}
	return s.build(ctx, f, entries), nil
}

// BuildSelection runs a fresh search for f and builds its deck.
func (s *Service) BuildSelection(ctx context.Context, f filter.Filters) (Deck, error) {
	res, err := s.agg.Aggregate(ctx, f)
	if err != nil {
		return Deck{}, fmt.Errorf("aggregate: %w", err)
	}
	entries := res.Entries
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return s.build(ctx, f, entries), nil
}

// Export builds the source's deck and hands it to the exporter. An empty deck is not written.
func (s *Service) Export(ctx context.Context, src EntrySource, exporter Exporter) (string, Deck, error) {
	d, err := s.Build(ctx, src)
	if err != nil {
		return "", Deck{}, err
	}
	path, err := write(exporter, d)
	return path, d, err
}

// ExportSelection runs a fresh search for f and exports its deck.
func (s *Service) ExportSelection(ctx context.Context, f filter.Filters, exporter Exporter) (string, Deck, error) {
	d, err := s.BuildSelection(ctx, f)
	if err != nil {
		return "", Deck{}, err
	}
	path, err := write(exporter, d)
	return path, d, err
}

func write(exporter Exporter, d Deck) (string, error) {
	if d.Empty() {
		return "", nil
	}
	path, err := exporter.Export(d.FileName, d.Rows)
	if err != nil {
		return "", fmt.Errorf("export deck: %w", err)
	}
	return path, nil
}

func (s *Service) build(ctx context.Context, f filter.Filters, entries []entry.Entry) Deck {
	d := Deck{
		FileName: deck.FileName(f.Source, f.Targets),
		Rows:     deck.BuildRows(entries, f.Source, f.Targets),
		Entries:  len(entries),
	}
	logger.FromContext(ctx).Debug("deck built",
		zap.String("file", d.FileName),
		zap.Int("entries", d.Entries),
		zap.Int("rows", len(d.Rows)),
	)
	return d
}
