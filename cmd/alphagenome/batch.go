package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/batch"
	"github.com/deluair/alphagenome/internal/output"
	"github.com/deluair/alphagenome/internal/store"
	"github.com/deluair/alphagenome/internal/varlist"
	"github.com/deluair/alphagenome/internal/vcf"
)

func newBatchCmd() *cobra.Command {
	var (
		outputFile  string
		inputFormat string
		format      string
		workers     int
		rateLimit   int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <input-file>",
		Short: "Predict effects for every variant in a VCF or variant-list file",
		Long: `Reads variants from a VCF or tab-separated variant-list file, predicts
each one through the AlphaGenome API, and writes an atomic JSON result
file. A failure on one variant never aborts the rest of the batch;
interrupting the run marks still-queued variants as cancelled.`,
		Example: `  alphagenome batch input.vcf
  alphagenome batch -o results.json variants.tsv
  alphagenome batch --format tab input.vcf.gz
  cat input.vcf | alphagenome batch -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rateLimit > 0 {
				cfg.API.RateLimit = rateLimit
			}
			return runBatch(args[0], outputFile, inputFormat, format, workers, noCache)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Result file (default: <output dir>/results.json)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: vcf, list (auto-detected if not specified)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, tab")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent prediction calls (default: from config)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "API requests per minute (default: from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local result cache")

	return cmd
}

func runBatch(inputPath, outputFile, inputFormat, format string, workers int, noCache bool) error {
	if format != "json" && format != "tab" {
		return fmt.Errorf("unknown output format %q", format)
	}

	detected := inputFormat
	if detected == "" {
		detected = detectInputFormat(inputPath)
	}

	var parser vcf.RecordParser
	var err error
	switch detected {
	case "vcf":
		parser, err = vcf.NewParser(inputPath)
	case "list":
		parser, err = varlist.NewParser(inputPath)
	default:
		return fmt.Errorf("unknown input format %q (use --input-format vcf or list)", detected)
	}
	if err != nil {
		return err
	}
	defer parser.Close()

	recs, err := vcf.ReadAll(parser)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no variants found in %s", inputPath)
	}
	logger.Info("variants loaded", zap.String("input", inputPath), zap.Int("count", len(recs)))

	predictor, closeCache, err := newPredictor(noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	proc := batch.NewProcessor(predictor)
	proc.SetLogger(logger)
	if workers > 0 {
		proc.SetWorkers(workers)
	} else {
		proc.SetWorkers(cfg.Analysis.Workers)
	}

	run := proc.Process(rootContext(), recs)

	if format == "tab" {
		return output.NewTabWriter(os.Stdout).WriteRun(run)
	}

	if outputFile == "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		outputFile = filepath.Join(cfg.Output.Directory, "results.json")
	}
	if err := store.Save(run, outputFile); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	s := run.Summary()
	logger.Info("results saved",
		zap.String("output", outputFile),
		zap.Int("total", s.Total),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("cancelled", s.Cancelled))
	return nil
}

// detectInputFormat detects the input file format by extension, then by
// content.
func detectInputFormat(path string) string {
	lowerPath := strings.ToLower(path)
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")

	if strings.HasSuffix(lowerPath, ".vcf") {
		return "vcf"
	}
	if strings.HasSuffix(lowerPath, ".tsv") || strings.HasSuffix(lowerPath, ".list") {
		return "list"
	}

	if path == "-" {
		return "vcf"
	}

	// Peek at the file to detect the format.
	file, err := os.Open(path)
	if err != nil {
		return "vcf"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil || n == 0 {
		return "vcf"
	}
	content := string(buf[:n])

	if strings.HasPrefix(content, "##fileformat=VCF") || strings.Contains(content, "#CHROM") {
		return "vcf"
	}
	lower := strings.ToLower(content)
	if strings.Contains(lower, "chrom") && strings.Contains(lower, "pos") {
		return "list"
	}

	return "vcf"
}
