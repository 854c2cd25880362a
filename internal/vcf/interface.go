// Package vcf provides VCF file parsing functionality.
package vcf

import "github.com/deluair/alphagenome/internal/variant"

// RecordParser is the interface for parsers that read variant records.
// Both the VCF and variant-list parsers implement this interface.
type RecordParser interface {
	// Next reads the next variant record.
	// Returns nil, nil when there are no more variants.
	Next() (*variant.Record, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// ReadAll drains a parser into a slice, preserving file order.
func ReadAll(p RecordParser) ([]*variant.Record, error) {
	var recs []*variant.Record
	for {
		rec, err := p.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return recs, nil
		}
		recs = append(recs, rec)
	}
}
