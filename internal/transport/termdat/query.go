package termdat

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
	"github.com/samber/lo"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

// disabledFields stops the search endpoint from echoing verbose fields.
var disabledFields = []string{
	"fields.term",
	"fields.name",
	"fields.abbreviation",
	"fields.phraseology",
	"fields.definition",
	"fields.note",
	"fields.context",
	"fields.source",
	"fields.metadata",
	"fields.country",
	"fields.comment",
}

type queryParam struct {
	name  string
	value any
}

// BuildSearchQuery assembles the query of one search page.
// Returns domain.ErrNotReady when the collection or target selection is empty.
// Source and target codes without an API id are skipped.
func BuildSearchQuery(f filter.Filters, pageIndex, pageSize int) (url.Values, error) {
	if !f.Ready() {
		return nil, domain.ErrNotReady
	}

	params := []queryParam{
		{"pageindex", pageIndex},
		{"pagesize", pageSize},
	}
	if id, ok := domain.LanguageID(f.Source); ok {
		params = append(params, queryParam{"sourceLanguageIds", id})
	}
	if targetIDs := lo.FilterMap(f.Targets, func(c domain.LanguageCode, _ int) (int, bool) {
		return domain.LanguageID(c)
	}); len(targetIDs) > 0 {
		params = append(params, queryParam{"targetLanguageIds", targetIDs})
	}
	params = append(params,
		queryParam{"collections", f.Collections},
		queryParam{"collectionsPriority", true},
		queryParam{"status", 1},
		queryParam{"statusPriority", true},
	)
	for _, field := range disabledFields {
		params = append(params, queryParam{field, false})
	}

	values := make(url.Values, len(params))
	for _, p := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return nil, fmt.Errorf("style param %s: %w", p.name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, fmt.Errorf("parse param %s: %w", p.name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}
	return values, nil
}
