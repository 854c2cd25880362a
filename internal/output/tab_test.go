package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deluair/alphagenome/internal/batch"
	"github.com/deluair/alphagenome/internal/variant"
)

func sampleRun(t *testing.T) *batch.Run {
	t.Helper()

	brca1, err := variant.New("chr17", 43106528, "G", "T")
	require.NoError(t, err)
	brca1 = brca1.WithMetadata(map[string]string{"gene": "BRCA1"})

	tp53, err := variant.New("chr17", 7674220, "G", "A")
	require.NoError(t, err)

	return &batch.Run{
		Started:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Finished: time.Date(2025, 6, 1, 0, 1, 0, 0, time.UTC),
		Outcomes: []batch.Outcome{
			{
				Record: *brca1,
				Status: batch.StatusOK,
				Result: &variant.PredictionResult{
					Record: *brca1,
					Predictions: map[string]variant.AssayPrediction{
						variant.AssayRNASeq: {
							Reference:  &variant.TrackSummary{Mean: 1.2, Length: 1000},
							Alternate:  &variant.TrackSummary{Mean: 0.8, Length: 1000},
							Difference: &variant.DiffSummary{MaxDifference: 1.1},
						},
					},
				},
			},
			{
				Record:     *tp53,
				Status:     batch.StatusFailed,
				ErrKind:    batch.KindTransient,
				ErrMessage: "prediction failed after 4 attempts: timeout",
			},
		},
	}
}

func TestTabWriterRun(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	require.NoError(t, tw.WriteRun(sampleRun(t)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "#Variant\tLocation\t"))

	ok := strings.Split(lines[1], "\t")
	require.Len(t, ok, 7)
	assert.Equal(t, "chr17_43106528_G/T", ok[0])
	assert.Equal(t, "chr17:43106528", ok[1])
	assert.Equal(t, "BRCA1", ok[2])
	assert.Equal(t, "ok", ok[3])
	assert.Equal(t, "rna_seq", ok[4])
	assert.Equal(t, "1.1000", ok[5])
	assert.Equal(t, "-", ok[6])

	failed := strings.Split(lines[2], "\t")
	assert.Equal(t, "failed", failed[3])
	assert.Equal(t, "-", failed[4])
	assert.Contains(t, failed[6], "transient")
}
