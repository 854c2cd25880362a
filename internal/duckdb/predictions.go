package duckdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/deluair/alphagenome/internal/variant"
)

// Put stores a prediction result, superseding any previous entry for the
// same variant identity. The write is transactional: a reader never sees a
// variant with a partial assay set.
func (s *Store) Put(res *variant.PredictionResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer tx.Rollback()

	rec := res.Record
	if _, err := tx.Exec(
		`DELETE FROM predictions WHERE chrom=? AND pos=? AND ref=? AND alt=?`,
		rec.Chrom, rec.Pos, rec.Ref, rec.Alt,
	); err != nil {
		return fmt.Errorf("supersede cached result: %w", err)
	}

	for assay, pred := range res.Predictions {
		if pred.Reference == nil {
			continue
		}

		args := []any{
			rec.Chrom, rec.Pos, rec.Ref, rec.Alt, assay,
			pred.Reference.Mean, pred.Reference.Std, pred.Reference.Max,
			pred.Reference.Min, pred.Reference.Length,
		}
		if pred.Alternate != nil {
			args = append(args, pred.Alternate.Mean, pred.Alternate.Std,
				pred.Alternate.Max, pred.Alternate.Min, pred.Alternate.Length)
		} else {
			args = append(args, nil, nil, nil, nil, nil)
		}
		if pred.Difference != nil {
			args = append(args, pred.Difference.MeanDifference, pred.Difference.MaxDifference,
				pred.Difference.TotalEffect, pred.Difference.Correlation)
		} else {
			args = append(args, nil, nil, nil, nil)
		}
		args = append(args, res.Timestamp)

		if _, err := tx.Exec(
			`INSERT INTO predictions VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			args...,
		); err != nil {
			return fmt.Errorf("cache prediction for %s/%s: %w", rec.Key(), assay, err)
		}
	}

	return tx.Commit()
}

// Get returns the cached result for a variant, if present. The returned
// result carries the caller's record (including metadata); only the
// prediction payload comes from the cache. Timestamps round-trip at DuckDB's
// microsecond precision.
func (s *Store) Get(rec *variant.Record) (*variant.PredictionResult, bool, error) {
	rows, err := s.db.Query(`SELECT
		assay,
		ref_mean, ref_std, ref_max, ref_min, ref_length,
		alt_mean, alt_std, alt_max, alt_min, alt_length,
		diff_mean, diff_max, diff_total, diff_corr,
		predicted_at
		FROM predictions
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`,
		rec.Chrom, rec.Pos, rec.Ref, rec.Alt)
	if err != nil {
		return nil, false, fmt.Errorf("query cached prediction: %w", err)
	}
	defer rows.Close()

	res := &variant.PredictionResult{
		Record:      *rec,
		Predictions: make(map[string]variant.AssayPrediction),
	}

	for rows.Next() {
		var (
			assay       string
			ref         variant.TrackSummary
			altMean     sql.NullFloat64
			altStd      sql.NullFloat64
			altMax      sql.NullFloat64
			altMin      sql.NullFloat64
			altLength   sql.NullInt64
			diffMean    sql.NullFloat64
			diffMax     sql.NullFloat64
			diffTotal   sql.NullFloat64
			diffCorr    sql.NullFloat64
			predictedAt time.Time
		)
		if err := rows.Scan(
			&assay,
			&ref.Mean, &ref.Std, &ref.Max, &ref.Min, &ref.Length,
			&altMean, &altStd, &altMax, &altMin, &altLength,
			&diffMean, &diffMax, &diffTotal, &diffCorr,
			&predictedAt,
		); err != nil {
			return nil, false, fmt.Errorf("scan cached prediction: %w", err)
		}

		refCopy := ref
		pred := variant.AssayPrediction{Reference: &refCopy}
		if altLength.Valid {
			pred.Alternate = &variant.TrackSummary{
				Mean:   altMean.Float64,
				Std:    altStd.Float64,
				Max:    altMax.Float64,
				Min:    altMin.Float64,
				Length: int(altLength.Int64),
			}
		}
		if diffMean.Valid {
			pred.Difference = &variant.DiffSummary{
				MeanDifference: diffMean.Float64,
				MaxDifference:  diffMax.Float64,
				TotalEffect:    diffTotal.Float64,
				Correlation:    diffCorr.Float64,
			}
		}
		res.Predictions[assay] = pred
		res.Timestamp = predictedAt.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate cached predictions: %w", err)
	}

	if len(res.Predictions) == 0 {
		return nil, false, nil
	}
	return res, true, nil
}

// Clear removes all cached predictions.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM predictions")
	return err
}

// Stats describes cache occupancy.
type Stats struct {
	Variants int // distinct cached variants
	Rows     int // variant-assay rows
}

// Stats returns cache occupancy counts.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	row := s.db.QueryRow(`SELECT
		COUNT(DISTINCT chrom || ':' || pos || ':' || ref || ':' || alt),
		COUNT(*)
		FROM predictions`)
	if err := row.Scan(&st.Variants, &st.Rows); err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	return st, nil
}
