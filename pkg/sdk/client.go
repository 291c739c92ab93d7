package termdeck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/termdeck/internal/db/redis"
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/repository/deckfile"
	"github.com/kailas-cloud/termdeck/internal/repository/termcache"
	"github.com/kailas-cloud/termdeck/internal/transport/termdat"
	exportuc "github.com/kailas-cloud/termdeck/internal/usecase/export"
	healthuc "github.com/kailas-cloud/termdeck/internal/usecase/health"
	searchuc "github.com/kailas-cloud/termdeck/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCollectionsTTL   = time.Hour
	defaultSearchTTL        = 10 * time.Minute
)

// Internal interfaces so tests can substitute the API.
type terminologyAPI interface {
	PageSize() int
	FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error)
	FetchSearchPage(ctx context.Context, f filter.Filters, pageIndex, pageSize int) ([]entry.Entry, error)
	HealthCheck(ctx context.Context) error
}

type searchUseCase interface {
	Aggregate(ctx context.Context, f filter.Filters, opts ...searchuc.Option) (searchuc.Result, error)
}

type exportUseCase interface {
	BuildSelection(ctx context.Context, f filter.Filters) (exportuc.Deck, error)
}

// Client is the termdeck SDK entry point.
type Client struct {
	store     *dbRedis.Store
	api       terminologyAPI
	searchSvc searchUseCase
	exportSvc exportUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With WithRedis the cache must answer within ctx and a readiness timeout.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:        DefaultBaseURL,
		collectionsTTL: defaultCollectionsTTL,
		searchTTL:      defaultSearchTTL,
		keyPrefix:      domain.KeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.baseURL == "" {
		return nil, errors.New("termdeck: base URL required")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	client := termdat.NewClient(&termdat.Config{
		BaseURL:    cfg.baseURL,
		PageSize:   cfg.pageSize,
		Timeout:    cfg.timeout,
		RatePerSec: cfg.ratePerSec,
		Burst:      cfg.burst,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	var api terminologyAPI = client

	var store *dbRedis.Store
	if len(cfg.redisAddrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.redisAddrs,
			Password:  cfg.redisPassword,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("termdeck: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("termdeck: cache not ready: %w", err)
		}
		api = termcache.New(client, store, termcache.TTLs{
			Collections: cfg.collectionsTTL,
			Search:      cfg.searchTTL,
		}, obs.cacheCounter(), zap.NewNop())
	}

	c := wireClient(api, cfg.exportLimit, obs)
	c.store = store
	if store != nil {
		c.healthSvc = healthuc.New(api, store, defaultReadinessTimeout)
	}
	return c, nil
}

func wireClient(api terminologyAPI, exportLimit int, obs *observer) *Client {
	agg := searchuc.New(api)
	return &Client{
		api:       api,
		searchSvc: agg,
		exportSvc: exportuc.New(agg, exportLimit),
		healthSvc: healthuc.New(api, nil, defaultReadinessTimeout),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Languages lists the supported languages in display order.
func (c *Client) Languages() []Language {
	options := domain.LanguageOptions()
	out := make([]Language, len(options))
	for i, o := range options {
		id, _ := domain.LanguageID(o.Code)
		out[i] = Language{Code: string(o.Code), Label: o.Label, ID: id}
	}
	return out
}

// Collections lists the collections named in the source language, sorted by name.
func (c *Client) Collections(ctx context.Context, source string) ([]Collection, error) {
	return c.FindCollections(ctx, source, "")
}

// FindCollections lists the collections whose name or code contains term.
func (c *Client) FindCollections(ctx context.Context, source, term string) (_ []Collection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collections", start, err, "source", source) }()

	code, err := domain.ParseLanguage(source)
	if err != nil {
		return nil, err //nolint:wrapcheck // sentinel re-exported
	}
	cols, err := c.api.FetchCollections(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}
	matched := collection.Match(collection.SortByName(cols), term)
	out := make([]Collection, len(matched))
	for i, col := range matched {
		out[i] = collectionFromDomain(col)
	}
	return out, nil
}

// Search runs the paginated search for sel and keeps the hits inside the selected collections.
// An incomplete selection (no collection or no target) yields an empty result.
func (c *Client) Search(ctx context.Context, sel Selection) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	f, err := sel.toFilters()
	if err != nil {
		return SearchResult{}, err
	}
	res, err := c.searchSvc.Aggregate(ctx, f)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	out := SearchResult{
		Entries:         make([]Entry, len(res.Entries)),
		BoundaryCrossed: res.BoundaryCrossed,
	}
	if res.PrimaryCollectionID != nil {
		out.PrimaryCollectionID = *res.PrimaryCollectionID
	}
	for i, e := range res.Entries {
		out.Entries[i] = entryFromDomain(e)
	}
	return out, nil
}

// Deck searches sel and maps the hits to flashcards.
func (c *Client) Deck(ctx context.Context, sel Selection) (_ Deck, err error) {
	start := time.Now()
	defer func() { c.obs.observe("deck", start, err) }()

	f, err := sel.toFilters()
	if err != nil {
		return Deck{}, err
	}
	d, err := c.exportSvc.BuildSelection(ctx, f)
	if err != nil {
		return Deck{}, fmt.Errorf("build deck: %w", err)
	}
	return Deck{FileName: d.FileName, Cards: cardsFromRows(d.Rows), Entries: d.Entries}, nil
}

// WriteDeck builds the deck for sel and writes it to w as TSV. Nothing is written for an empty deck.
func (c *Client) WriteDeck(ctx context.Context, sel Selection, w io.Writer) (Deck, error) {
	d, err := c.Deck(ctx, sel)
	if err != nil {
		return Deck{}, err
	}
	if len(d.Cards) == 0 {
		return d, nil
	}
	if _, err := w.Write(deckfile.Encode(rowsFromCards(d.Cards))); err != nil {
		return Deck{}, fmt.Errorf("write deck: %w", err)
	}
	return d, nil
}

// SaveDeck builds the deck for sel and saves it under dir. Returns the written path,
// empty when the deck had no cards.
func (c *Client) SaveDeck(ctx context.Context, sel Selection, dir string) (string, Deck, error) {
	d, err := c.Deck(ctx, sel)
	if err != nil {
		return "", Deck{}, err
	}
	path, err := deckfile.NewWriter(dir, nil, nil).Export(d.FileName, rowsFromCards(d.Cards))
	if err != nil {
		return "", Deck{}, fmt.Errorf("save deck: %w", err)
	}
	return path, d, nil
}
