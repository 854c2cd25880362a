package variant

import "time"

// Default assays requested from the prediction service.
const (
	AssayRNASeq = "rna_seq"
	AssayCAGE   = "cage"
	AssayDNase  = "dnase"
)

// DefaultAssays returns the assay set requested when the caller does not
// specify one.
func DefaultAssays() []string {
	return []string{AssayRNASeq, AssayCAGE, AssayDNase}
}

// TrackSummary holds the numeric summary of a single predicted track.
type TrackSummary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Length int     `json:"length"`
}

// DiffSummary summarizes the difference between the alternate and reference
// tracks of one assay.
type DiffSummary struct {
	MeanDifference float64 `json:"mean_difference"`
	MaxDifference  float64 `json:"max_difference"`
	TotalEffect    float64 `json:"total_effect"`
	Correlation    float64 `json:"correlation"`
}

// AssayPrediction is the per-assay payload of a prediction result.
// Alternate and Difference may be nil when the service returned only a
// reference track.
type AssayPrediction struct {
	Reference  *TrackSummary `json:"reference"`
	Alternate  *TrackSummary `json:"alternate,omitempty"`
	Difference *DiffSummary  `json:"difference,omitempty"`
}

// PredictionResult holds the predictions for a single variant. Results are
// created once per successful prediction call and never mutated; re-analysis
// supersedes a result rather than editing it.
type PredictionResult struct {
	Record      Record                     `json:"variant"`
	Predictions map[string]AssayPrediction `json:"predictions"`
	Timestamp   time.Time                  `json:"timestamp"`
}

// MaxEffect returns the largest absolute difference across all assays and
// the assay it came from. Zero-valued when no assay carries a difference.
func (p *PredictionResult) MaxEffect() (assay string, effect float64) {
	for name, pred := range p.Predictions {
		if pred.Difference == nil {
			continue
		}
		d := pred.Difference.MaxDifference
		if d < 0 {
			d = -d
		}
		if d > effect || assay == "" {
			assay = name
			effect = d
		}
	}
	return assay, effect
}
