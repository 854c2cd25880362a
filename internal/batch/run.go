// Package batch orchestrates prediction calls over many variants: bounded
// worker pool, per-variant failure isolation, deterministic output ordering.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/deluair/alphagenome/internal/predict"
	"github.com/deluair/alphagenome/internal/variant"
)

// Status classifies the outcome of a single variant within a run.
type Status string

const (
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Error kinds recorded on failed outcomes.
const (
	KindValidation = "validation"
	KindTransient  = "transient"
	KindPermanent  = "permanent"
	KindCancelled  = "cancelled"
	KindUnknown    = "unknown"
)

// Outcome pairs an input variant with its result or failure descriptor.
type Outcome struct {
	Record     variant.Record
	Status     Status
	Result     *variant.PredictionResult // nil unless Status is ok
	ErrKind    string                    // empty unless Status is failed or cancelled
	ErrMessage string
}

// Run is the ordered record of one batch: exactly one outcome per input
// variant, in input order.
type Run struct {
	Outcomes []Outcome
	Started  time.Time
	Finished time.Time
}

// Summary holds per-run aggregate counts.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Cancelled   int
	SuccessRate float64
}

// Summary aggregates outcome counts for the run.
func (r *Run) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusOK:
			s.Succeeded++
		case StatusCancelled:
			s.Cancelled++
		default:
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Total)
	}
	return s
}

// outcomeForError builds a failure or cancellation outcome for a variant.
func outcomeForError(rec *variant.Record, err error) Outcome {
	o := Outcome{Record: *rec, Status: StatusFailed, ErrMessage: err.Error()}

	var verr *variant.ValidationError
	var terr *predict.TransientError
	var perr *predict.PermanentError
	switch {
	case errors.As(err, &verr):
		o.ErrKind = KindValidation
	case errors.As(err, &terr):
		o.ErrKind = KindTransient
	case errors.As(err, &perr):
		o.ErrKind = KindPermanent
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		o.Status = StatusCancelled
		o.ErrKind = KindCancelled
	default:
		o.ErrKind = KindUnknown
	}
	return o
}
