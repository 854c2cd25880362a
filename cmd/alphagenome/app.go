package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/deluair/alphagenome/internal/duckdb"
	"github.com/deluair/alphagenome/internal/predict"
)

var (
	rootCtx     context.Context
	rootCtxOnce sync.Once
)

// rootContext returns a context cancelled on SIGINT/SIGTERM, so an aborted
// batch marks its remaining variants cancelled instead of dropping them.
func rootContext() context.Context {
	rootCtxOnce.Do(func() {
		rootCtx, _ = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	})
	return rootCtx
}

// cachePath resolves the DuckDB cache location from configuration.
func cachePath() string {
	if cfg.Output.CachePath != "" {
		return cfg.Output.CachePath
	}
	return filepath.Join(cfg.Output.Directory, "cache.duckdb")
}

// newClient builds the HTTP prediction client from configuration.
func newClient() (*predict.Client, error) {
	if cfg.API.Key == "" {
		return nil, fmt.Errorf("no API key configured (use --api-key, ALPHAGENOME_API_KEY, or api.key in the config file)")
	}

	c := predict.NewClient(cfg.API.BaseURL, cfg.API.Key)
	c.SetLogger(logger)
	c.SetRateLimit(cfg.API.RateLimit)
	c.SetMaxAttempts(cfg.API.MaxAttempts)
	c.SetIntervalSize(cfg.Analysis.IntervalSize)
	if cfg.API.TimeoutSecs > 0 {
		c.SetTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	}
	if len(cfg.Analysis.Assays) > 0 {
		c.SetAssays(cfg.Analysis.Assays)
	}
	return c, nil
}

// newPredictor builds the prediction chain: the HTTP client, wrapped with
// the DuckDB cache unless caching is disabled. The returned closer owns the
// cache connection when one was opened.
func newPredictor(noCache bool) (predict.Predictor, func() error, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}

	if noCache || !cfg.Analysis.CacheResults {
		return client, func() error { return nil }, nil
	}

	store, err := duckdb.Open(cachePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open result cache: %w", err)
	}

	cached := predict.NewCachingPredictor(client, store)
	cached.SetLogger(logger)
	return cached, store.Close, nil
}
