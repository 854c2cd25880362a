// Package variant provides the validated genomic variant model and the
// prediction result payloads attached to it.
package variant

import (
	"fmt"
	"regexp"
	"strings"
)

// chromPattern matches normalized human chromosome names (chr1-chr22, chrX,
// chrY, chrM).
var chromPattern = regexp.MustCompile(`^chr([1-9]|1[0-9]|2[0-2]|X|Y|M)$`)

// allelePattern matches nucleotide alleles after case-folding.
var allelePattern = regexp.MustCompile(`^[ACGT]+$`)

// Record represents a single genomic variant. Construct records with New;
// fields are never modified after construction.
type Record struct {
	Chrom    string            `json:"chromosome"`
	Pos      int64             `json:"position"` // 1-based genomic position
	Ref      string            `json:"reference"`
	Alt      string            `json:"alternate"` // empty for pure deletions
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ValidationError reports malformed variant input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid variant %s: %s", e.Field, e.Message)
}

// New validates and normalizes a raw variant into a Record.
// Chromosome names are normalized to the "chr" prefixed form, alleles are
// upper-cased. Returns a *ValidationError on malformed input.
func New(chrom string, pos int64, ref, alt string) (*Record, error) {
	c := NormalizeChrom(chrom)
	if !chromPattern.MatchString(c) {
		return nil, &ValidationError{Field: "chromosome", Message: fmt.Sprintf("unrecognized chromosome %q", chrom)}
	}

	if pos <= 0 {
		return nil, &ValidationError{Field: "position", Message: fmt.Sprintf("position must be positive, got %d", pos)}
	}

	r := strings.ToUpper(ref)
	if !allelePattern.MatchString(r) {
		return nil, &ValidationError{Field: "reference", Message: fmt.Sprintf("invalid reference allele %q", ref)}
	}

	a := strings.ToUpper(alt)
	if a != "" && !allelePattern.MatchString(a) {
		return nil, &ValidationError{Field: "alternate", Message: fmt.Sprintf("invalid alternate allele %q", alt)}
	}

	return &Record{Chrom: c, Pos: pos, Ref: r, Alt: a}, nil
}

// WithMetadata returns a copy of the record carrying the given metadata.
// The receiver is left untouched.
func (r *Record) WithMetadata(meta map[string]string) *Record {
	cp := *r
	if len(meta) > 0 {
		cp.Metadata = make(map[string]string, len(meta))
		for k, v := range meta {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// NormalizeChrom normalizes a chromosome name to the "chr" prefixed form.
// Mitochondrial aliases MT and chrMT map to chrM.
func NormalizeChrom(chrom string) string {
	c := strings.TrimPrefix(chrom, "chr")
	if strings.EqualFold(c, "MT") {
		c = "M"
	}
	return "chr" + strings.ToUpper(c)
}

// ID returns the display identifier, e.g. "chr17_43106528_G/T".
func (r *Record) ID() string {
	return fmt.Sprintf("%s_%d_%s/%s", r.Chrom, r.Pos, r.Ref, r.Alt)
}

// Key returns the identity key used for cache and store lookups,
// e.g. "chr17:43106528:G:T". Two records with equal keys describe the
// same variant regardless of metadata.
func (r *Record) Key() string {
	return fmt.Sprintf("%s:%d:%s:%s", r.Chrom, r.Pos, r.Ref, r.Alt)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (r *Record) IsSNV() bool {
	return len(r.Ref) == 1 && len(r.Alt) == 1
}

// IsDeletion returns true if the variant deletes reference bases.
func (r *Record) IsDeletion() bool {
	return len(r.Ref) > len(r.Alt)
}

// IsInsertion returns true if the variant inserts bases.
func (r *Record) IsInsertion() bool {
	return len(r.Alt) > len(r.Ref)
}
