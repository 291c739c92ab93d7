package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/config"
	dbRedis "github.com/kailas-cloud/termdeck/internal/db/redis"
	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/metrics"
	"github.com/kailas-cloud/termdeck/internal/repository/termcache"
	"github.com/kailas-cloud/termdeck/internal/transport/termdat"
	healthuc "github.com/kailas-cloud/termdeck/internal/usecase/health"
)

// termdatAPI is the terminology API as the use cases see it, cached or not.
type termdatAPI interface {
	PageSize() int
	FetchCollections(ctx context.Context, source domain.LanguageCode) ([]collection.Collection, error)
	FetchSearchPage(ctx context.Context, f filter.Filters, pageIndex, pageSize int) ([]entry.Entry, error)
	HealthCheck(ctx context.Context) error
}

// deps holds the infrastructure shared by all commands.
type deps struct {
	api   termdatAPI
	store *dbRedis.Store
}

// buildDeps assembles the API client chain: HTTP client -> response cache (when enabled).
func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	client := termdat.NewClient(&termdat.Config{
		BaseURL:    cfg.Termdat.BaseURL,
		PageSize:   cfg.Termdat.PageSize,
		Timeout:    cfg.Termdat.Timeout(),
		RatePerSec: cfg.Termdat.RatePerSec,
		Burst:      cfg.Termdat.Burst,
		Logger:     logger,
	})
	d := &deps{api: client}
	if !cfg.Cache.Enabled() {
		return d, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     cfg.Cache.Addrs,
		Password:  cfg.Cache.Password,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

	d.store = store
	d.api = termcache.New(client, store, termcache.TTLs{
		Collections: time.Duration(cfg.Cache.CollectionsTTL) * time.Second,
		Search:      time.Duration(cfg.Cache.SearchTTL) * time.Second,
	}, metrics.CacheTotal, logger)
	return d, nil
}

// cachePinger returns the store as a health dependency.
// A nil *Store wrapped in the interface would not compare equal to nil.
func (d *deps) cachePinger() healthuc.CachePinger {
	if d.store == nil {
		return nil
	}
	return d.store
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// defaultSelection builds the selection new sessions and exports start from.
func defaultSelection(cfg config.Config, collections []int) (filter.Filters, error) {
	source, err := domain.ParseLanguage(cfg.Session.DefaultSource)
	if err != nil {
		return filter.Filters{}, fmt.Errorf("source language: %w", err)
	}
	targets, err := domain.ParseLanguages(cfg.Session.DefaultTargets)
	if err != nil {
		return filter.Filters{}, fmt.Errorf("target languages: %w", err)
	}
	return filter.New(source, targets, collections), nil
}
