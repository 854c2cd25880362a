package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/variant"
)

// variantSpecPattern matches a positional variant spec such as
// "chr17:43106528:G>T" or "chr17:43106528:G:T". An empty alternate marks a
// deletion ("chr7:117548628:CTT>-").
var variantSpecPattern = regexp.MustCompile(`^([^:]+):(\d+):([A-Za-z]+)[:>]([A-Za-z]*|-)$`)

func newAnalyzeCmd() *cobra.Command {
	var (
		gene       string
		outputFile string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <chrom:pos:ref>alt>",
		Short: "Predict the effects of a single variant",
		Example: `  alphagenome analyze chr17:43106528:G>T
  alphagenome analyze --gene BRCA1 chr17:43106528:G:T
  alphagenome analyze -o result.json chr7:117548628:CTT>-`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := parseVariantSpec(args[0])
			if err != nil {
				return err
			}
			if gene != "" {
				rec = rec.WithMetadata(map[string]string{"gene": gene})
			}
			return runAnalyze(rec, outputFile, noCache)
		},
	}

	cmd.Flags().StringVar(&gene, "gene", "", "Gene symbol to attach as metadata")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local result cache")

	return cmd
}

// parseVariantSpec parses and validates a positional variant spec.
func parseVariantSpec(spec string) (*variant.Record, error) {
	m := variantSpecPattern.FindStringSubmatch(spec)
	if m == nil {
		return nil, fmt.Errorf("invalid variant spec %q (expected chrom:pos:ref>alt)", spec)
	}

	pos, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position in variant spec %q", spec)
	}

	alt := m[4]
	if alt == "-" {
		alt = ""
	}

	return variant.New(m[1], pos, m[3], alt)
}

func runAnalyze(rec *variant.Record, outputFile string, noCache bool) error {
	predictor, closeCache, err := newPredictor(noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	logger.Info("analyzing variant", zap.String("variant", rec.ID()))

	res, err := predictor.PredictVariant(rootContext(), rec)
	if err != nil {
		return fmt.Errorf("predict %s: %w", rec.ID(), err)
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
