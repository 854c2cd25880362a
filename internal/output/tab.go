// Package output provides batch result formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/deluair/alphagenome/internal/batch"
)

// TabWriter writes batch outcomes in tab-delimited format, one line per
// variant, for quick terminal inspection.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant",
			"Location",
			"Gene",
			"Status",
			"Top_assay",
			"Max_effect",
			"Error",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single outcome.
func (tw *TabWriter) Write(o *batch.Outcome) error {
	location := fmt.Sprintf("%s:%d", o.Record.Chrom, o.Record.Pos)

	gene := "-"
	if g, ok := o.Record.Metadata["gene"]; ok && g != "" {
		gene = g
	}

	topAssay, maxEffect := "-", "-"
	if o.Result != nil {
		if assay, effect := o.Result.MaxEffect(); assay != "" {
			topAssay = assay
			maxEffect = fmt.Sprintf("%.4f", effect)
		}
	}

	errCol := "-"
	if o.ErrKind != "" {
		errCol = fmt.Sprintf("%s: %s", o.ErrKind, o.ErrMessage)
	}

	fields := []string{
		o.Record.ID(),
		location,
		gene,
		string(o.Status),
		topAssay,
		maxEffect,
		errCol,
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteRun writes the header and every outcome of a run, then flushes.
func (tw *TabWriter) WriteRun(run *batch.Run) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for i := range run.Outcomes {
		if err := tw.Write(&run.Outcomes[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
