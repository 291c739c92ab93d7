package search

import (
	"context"

	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

// PageSource fetches search result pages from the terminology API.
type PageSource interface {
	PageSize() int
	FetchSearchPage(ctx context.Context, f filter.Filters, pageIndex, pageSize int) ([]entry.Entry, error)
}
