package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/logger"
	"github.com/kailas-cloud/termdeck/internal/metrics"
)

// Result is the outcome of an aggregation run.
type Result struct {
	Entries             []entry.Entry `json:"entries"`
	Total               int           `json:"total"`
	Pages               int           `json:"pages"`
	PrimaryCollectionID *int          `json:"primaryCollectionId,omitempty"`
	BoundaryCrossed     bool          `json:"boundaryCrossed"`
	// More is set on the first-page result when further pages will be fetched.
	More bool `json:"more"`
}

// Option configures a single aggregation run.
type Option func(*runOptions)

type runOptions struct {
	stale     func() bool
	firstPage func(Result)
}

// WithStaleCheck sets the check evaluated after every page fetch.
// When it reports true the run stops with domain.ErrStaleRun and its pages are discarded.
func WithStaleCheck(stale func() bool) Option {
	return func(o *runOptions) { o.stale = stale }
}

// WithFirstPage sets a hook receiving the filtered first page before further pages are fetched.
func WithFirstPage(fn func(Result)) Option {
	return func(o *runOptions) { o.firstPage = fn }
}

// Service aggregates paginated search results within a collection window.
type Service struct {
	source PageSource
}

// New creates a search aggregation service.
func New(source PageSource) *Service {
	return &Service{source: source}
}

// Aggregate fetches page 1 and, while pages stay inside the selected collections and come back full,
// the following pages one at a time. Returns an empty result when the filters are not ready.
func (s *Service) Aggregate(ctx context.Context, f filter.Filters, opts ...Option) (Result, error) {
	o := runOptions{stale: func() bool { return false }}
	for _, opt := range opts {
		opt(&o)
	}

	if !f.Ready() {
		return Result{Entries: []entry.Entry{}}, nil
	}

	log := logger.FromContext(ctx)
	pageSize := s.source.PageSize()
	allowed := f.AllowedCollections()

	page, err := s.fetch(ctx, f, 1, pageSize, o.stale)
	if err != nil {
		return Result{}, err
	}

	w := FilterWindow(page, allowed, nil)
	res := Result{
		Entries:             w.Entries,
		Pages:               1,
		PrimaryCollectionID: w.PrimaryCollectionID,
		BoundaryCrossed:     w.BoundaryCrossed,
	}
	res.Total = len(res.Entries)
	res.More = !w.BoundaryCrossed && len(w.Entries) > 0 && len(page) >= pageSize
	log.Debug("search page aggregated",
		zap.Int("page", 1),
		zap.Int("page_len", len(page)),
		zap.Int("kept", len(w.Entries)),
		zap.Bool("boundary", w.BoundaryCrossed),
	)

	if o.firstPage != nil {
		o.firstPage(res)
	}
	if !res.More {
		return res, nil
	}
	res.More = false

	for pageIndex := 2; ; pageIndex++ {
		page, err = s.fetch(ctx, f, pageIndex, pageSize, o.stale)
		if err != nil {
			return Result{}, err
		}
		if len(page) == 0 {
			break
		}
		res.Pages = pageIndex

		w = FilterWindow(page, allowed, res.PrimaryCollectionID)
		res.PrimaryCollectionID = w.PrimaryCollectionID
		res.Entries = append(res.Entries, w.Entries...)
		log.Debug("search page aggregated",
			zap.Int("page", pageIndex),
			zap.Int("page_len", len(page)),
			zap.Int("kept", len(w.Entries)),
			zap.Bool("boundary", w.BoundaryCrossed),
		)

		if w.BoundaryCrossed {
			res.BoundaryCrossed = true
			break
		}
		if len(page) < pageSize {
			break
		}
	}

	res.Total = len(res.Entries)
	log.Info("search aggregation finished",
		zap.Int("entries", res.Total),
		zap.Int("pages", res.Pages),
		zap.Bool("boundary", res.BoundaryCrossed),
	)
	return res, nil
}

// fetch loads one page and checks the run is still current once it arrives.
func (s *Service) fetch(
	ctx context.Context, f filter.Filters, pageIndex, pageSize int, stale func() bool,
) ([]entry.Entry, error) {
	page, err := s.source.FetchSearchPage(ctx, f, pageIndex, pageSize)
	if stale() {
		metrics.AggregationStaleRunsTotal.Inc()
		logger.FromContext(ctx).Debug("stale search run discarded", zap.Int("page", pageIndex))
		return nil, domain.ErrStaleRun
	}
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", pageIndex, err)
	}
	metrics.AggregationPagesTotal.Inc()
	return page, nil
}
