// Package store persists batch runs as JSON files. Writes are atomic
// (temp-file-then-rename) so a crash or concurrent reader never observes a
// partially written file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deluair/alphagenome/internal/batch"
	"github.com/deluair/alphagenome/internal/variant"
)

// document is the on-disk shape: a run envelope around the result array.
type document struct {
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Results  []resultEntry `json:"results"`
}

// resultEntry is the wire form of one outcome.
type resultEntry struct {
	VariantID   string                             `json:"variant_id"`
	Chromosome  string                             `json:"chromosome"`
	Position    int64                              `json:"position"`
	Reference   string                             `json:"reference"`
	Alternate   string                             `json:"alternate"`
	Status      batch.Status                       `json:"status"`
	Predictions map[string]variant.AssayPrediction `json:"predictions,omitempty"`
	Timestamp   *time.Time                         `json:"timestamp,omitempty"`
	Metadata    map[string]string                  `json:"metadata,omitempty"`
	Error       *resultError                       `json:"error,omitempty"`
}

type resultError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Save writes the run to path atomically. An existing file at path is
// replaced; on failure the previous contents are left intact.
func Save(run *batch.Run, path string) error {
	doc := document{
		Started:  run.Started,
		Finished: run.Finished,
		Results:  make([]resultEntry, 0, len(run.Outcomes)),
	}
	for i := range run.Outcomes {
		doc.Results = append(doc.Results, toEntry(&run.Outcomes[i]))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".alphagenome-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write run: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync run: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load reads a run previously written by Save.
func Load(path string) (*batch.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse run file %s: %w", path, err)
	}

	run := &batch.Run{
		Started:  doc.Started,
		Finished: doc.Finished,
		Outcomes: make([]batch.Outcome, 0, len(doc.Results)),
	}
	for i := range doc.Results {
		run.Outcomes = append(run.Outcomes, fromEntry(&doc.Results[i]))
	}
	return run, nil
}

func toEntry(o *batch.Outcome) resultEntry {
	e := resultEntry{
		VariantID:  o.Record.ID(),
		Chromosome: o.Record.Chrom,
		Position:   o.Record.Pos,
		Reference:  o.Record.Ref,
		Alternate:  o.Record.Alt,
		Status:     o.Status,
		Metadata:   o.Record.Metadata,
	}
	if o.Result != nil {
		e.Predictions = o.Result.Predictions
		ts := o.Result.Timestamp
		e.Timestamp = &ts
	}
	if o.ErrKind != "" {
		e.Error = &resultError{Kind: o.ErrKind, Message: o.ErrMessage}
	}
	return e
}

func fromEntry(e *resultEntry) batch.Outcome {
	rec := variant.Record{
		Chrom:    e.Chromosome,
		Pos:      e.Position,
		Ref:      e.Reference,
		Alt:      e.Alternate,
		Metadata: e.Metadata,
	}
	o := batch.Outcome{Record: rec, Status: e.Status}
	if e.Status == batch.StatusOK {
		res := &variant.PredictionResult{
			Record:      rec,
			Predictions: e.Predictions,
		}
		if e.Timestamp != nil {
			res.Timestamp = *e.Timestamp
		}
		o.Result = res
	}
	if e.Error != nil {
		o.ErrKind = e.Error.Kind
		o.ErrMessage = e.Error.Message
	}
	return o
}
