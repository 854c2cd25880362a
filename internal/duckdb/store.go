// Package duckdb caches prediction results in DuckDB, keyed on variant
// identity (chrom, pos, ref, alt). Re-running an analysis against the same
// cache never repeats an API call for a variant already answered.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching prediction results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist. One row per
// (variant, assay); nullable alternate/difference columns cover
// reference-only responses.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS predictions (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		assay VARCHAR,
		ref_mean DOUBLE,
		ref_std DOUBLE,
		ref_max DOUBLE,
		ref_min DOUBLE,
		ref_length INTEGER,
		alt_mean DOUBLE,
		alt_std DOUBLE,
		alt_max DOUBLE,
		alt_min DOUBLE,
		alt_length INTEGER,
		diff_mean DOUBLE,
		diff_max DOUBLE,
		diff_total DOUBLE,
		diff_corr DOUBLE,
		predicted_at TIMESTAMP,
		PRIMARY KEY (chrom, pos, ref, alt, assay)
	)`)
	return err
}
