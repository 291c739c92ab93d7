package export

import (
	"context"

	"github.com/kailas-cloud/termdeck/internal/domain/deck"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/usecase/search"
)

// EntrySource is a live search state that can hand over its aggregated entries
// along with the selection they belong to.
type EntrySource interface {
	FetchAll(ctx context.Context, limit int) (filter.Filters, []entry.Entry, error)
}

// Aggregator runs a one-shot paginated search.
type Aggregator interface {
	Aggregate(ctx context.Context, f filter.Filters, opts ...search.Option) (search.Result, error)
}

// Exporter persists deck rows under a file name.
type Exporter interface {
	Export(fileName string, rows []deck.Row) (string, error)
}
