package batch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/predict"
	"github.com/deluair/alphagenome/internal/variant"
)

// DefaultWorkers is the worker-pool size when the caller does not set one.
const DefaultWorkers = 4

// Processor runs prediction calls for a batch of variants through a bounded
// worker pool. The predictor's rate limiter is the shared throttle; the pool
// only bounds in-flight work.
type Processor struct {
	predictor predict.Predictor
	workers   int
	logger    *zap.Logger
}

// NewProcessor creates a processor backed by the given predictor.
func NewProcessor(p predict.Predictor) *Processor {
	return &Processor{
		predictor: p,
		workers:   DefaultWorkers,
		logger:    zap.NewNop(),
	}
}

// SetWorkers bounds the number of concurrent prediction calls.
// Values below 1 fall back to the default.
func (p *Processor) SetWorkers(n int) {
	if n < 1 {
		n = DefaultWorkers
	}
	p.workers = n
}

// SetLogger sets the logger for per-variant progress and failures.
func (p *Processor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Process predicts every variant and returns one outcome per input, in
// input order. A failure on one variant never aborts the batch. Cancelling
// ctx lets in-flight calls complete and marks still-queued variants
// cancelled rather than failed.
func (p *Processor) Process(ctx context.Context, recs []*variant.Record) *Run {
	run := &Run{
		Started:  time.Now().UTC(),
		Outcomes: make([]Outcome, len(recs)),
	}
	if len(recs) == 0 {
		run.Finished = run.Started
		return run
	}

	workers := p.workers
	if workers > len(recs) {
		workers = len(recs)
	}

	indices := make(chan int, len(recs))
	for i := range recs {
		indices <- i
	}
	close(indices)

	// In-flight calls run to completion even after the batch is aborted;
	// cancellation is only observed between variants.
	callCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range indices {
				run.Outcomes[i] = p.processOne(ctx, callCtx, recs[i])
			}
		}()
	}
	wg.Wait()

	run.Finished = time.Now().UTC()

	s := run.Summary()
	p.logger.Info("batch finished",
		zap.Int("total", s.Total),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("cancelled", s.Cancelled),
		zap.Duration("elapsed", run.Finished.Sub(run.Started)))

	return run
}

func (p *Processor) processOne(ctx, callCtx context.Context, rec *variant.Record) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{
			Record:     *rec,
			Status:     StatusCancelled,
			ErrKind:    KindCancelled,
			ErrMessage: "batch aborted before variant was processed",
		}
	}

	res, err := p.predictor.PredictVariant(callCtx, rec)
	if err != nil {
		o := outcomeForError(rec, err)
		p.logger.Warn("variant failed",
			zap.String("variant", rec.ID()),
			zap.String("kind", o.ErrKind),
			zap.Error(err))
		return o
	}

	p.logger.Debug("variant predicted", zap.String("variant", rec.ID()))
	return Outcome{Record: *rec, Status: StatusOK, Result: res}
}
