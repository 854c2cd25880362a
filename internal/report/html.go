// Package report renders a saved batch run as a standalone HTML report.
package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/deluair/alphagenome/internal/batch"
	"github.com/deluair/alphagenome/internal/variant"
)

// reportData is the template context for a rendered run.
type reportData struct {
	Title     string
	Generated string
	Summary   batch.Summary
	Elapsed   string
	Variants  []variantData
}

type variantData struct {
	Index     int
	ID        string
	Location  string
	Change    string
	Gene      string
	Status    batch.Status
	Error     string
	Assays    []assayData
	TopAssay  string
	MaxEffect string
	Metadata  []metaEntry
}

type assayData struct {
	Name       string
	Reference  *variant.TrackSummary
	Alternate  *variant.TrackSummary
	Difference *variant.DiffSummary
}

type metaEntry struct {
	Key   string
	Value string
}

// Renderer writes HTML reports for batch runs.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewRenderer creates a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("report").Funcs(template.FuncMap{
			"f4":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
			"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
		}).Parse(reportTemplate)),
		now: time.Now,
	}
}

// Render writes the HTML report for a run.
func (r *Renderer) Render(w io.Writer, run *batch.Run) error {
	data := reportData{
		Title:     "AlphaGenome Analytics - Variant Analysis Report",
		Generated: r.now().Format("January 2, 2006 at 3:04 PM"),
		Summary:   run.Summary(),
		Elapsed:   run.Finished.Sub(run.Started).Round(time.Millisecond).String(),
	}

	for i := range run.Outcomes {
		data.Variants = append(data.Variants, buildVariantData(i, &run.Outcomes[i]))
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func buildVariantData(i int, o *batch.Outcome) variantData {
	alt := o.Record.Alt
	if alt == "" {
		alt = "-"
	}
	v := variantData{
		Index:    i + 1,
		ID:       o.Record.ID(),
		Location: fmt.Sprintf("%s:%d", o.Record.Chrom, o.Record.Pos),
		Change:   fmt.Sprintf("%s → %s", o.Record.Ref, alt),
		Gene:     o.Record.Metadata["gene"],
		Status:   o.Status,
	}
	if v.Gene == "" {
		v.Gene = "N/A"
	}
	if o.ErrKind != "" {
		v.Error = fmt.Sprintf("%s: %s", o.ErrKind, o.ErrMessage)
	}

	for _, k := range sortedKeys(o.Record.Metadata) {
		if k == "gene" {
			continue
		}
		v.Metadata = append(v.Metadata, metaEntry{Key: k, Value: o.Record.Metadata[k]})
	}

	if o.Result != nil {
		for _, name := range sortedKeys(o.Result.Predictions) {
			pred := o.Result.Predictions[name]
			v.Assays = append(v.Assays, assayData{
				Name:       name,
				Reference:  pred.Reference,
				Alternate:  pred.Alternate,
				Difference: pred.Difference,
			})
		}
		if assay, effect := o.Result.MaxEffect(); assay != "" {
			v.TopAssay = assay
			v.MaxEffect = fmt.Sprintf("%.4f", effect)
		}
	}

	return v
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
