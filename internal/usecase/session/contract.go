package session

import (
	"context"

	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/usecase/search"
)

// Aggregator runs a paginated search for a filter selection.
type Aggregator interface {
	Aggregate(ctx context.Context, f filter.Filters, opts ...search.Option) (search.Result, error)
}
