package predict

import (
	"context"

	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/variant"
)

// ResultCache is the idempotent key-value contract the caching layer needs.
// The DuckDB store implements it. Identity is the variant key
// (chromosome, position, reference, alternate).
type ResultCache interface {
	// Get returns the cached result for a variant, if present.
	Get(rec *variant.Record) (*variant.PredictionResult, bool, error)

	// Put stores a result, superseding any previous entry for its variant.
	Put(res *variant.PredictionResult) error
}

// CachingPredictor wraps a Predictor with a ResultCache so re-running the
// same variants never repeats an API call.
type CachingPredictor struct {
	inner  Predictor
	cache  ResultCache
	logger *zap.Logger
}

// NewCachingPredictor wraps inner with the given cache.
func NewCachingPredictor(inner Predictor, cache ResultCache) *CachingPredictor {
	return &CachingPredictor{inner: inner, cache: cache, logger: zap.NewNop()}
}

// SetLogger sets the logger for cache diagnostics.
func (p *CachingPredictor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// PredictVariant returns a cached result when one exists, otherwise
// delegates and persists the fresh result. A cache write failure is logged
// but does not fail the prediction; a cache read failure falls through to
// the inner predictor.
func (p *CachingPredictor) PredictVariant(ctx context.Context, rec *variant.Record) (*variant.PredictionResult, error) {
	key := rec.Key()

	cached, ok, err := p.cache.Get(rec)
	if err != nil {
		p.logger.Warn("cache lookup failed", zap.String("variant", key), zap.Error(err))
	} else if ok {
		p.logger.Debug("cache hit", zap.String("variant", key))
		return cached, nil
	}

	res, err := p.inner.PredictVariant(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Put(res); err != nil {
		p.logger.Warn("cache write failed", zap.String("variant", key), zap.Error(err))
	}
	return res, nil
}
