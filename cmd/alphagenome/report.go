package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/report"
	"github.com/deluair/alphagenome/internal/store"
)

func newReportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "report <results.json>",
		Short: "Render a saved batch run as an HTML report",
		Example: `  alphagenome report results.json
  alphagenome report -o analysis.html results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(args[0], outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "report.html", "Output HTML file")

	return cmd
}

func runReport(resultsPath, outputFile string) error {
	run, err := store.Load(resultsPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer out.Close()

	if err := report.NewRenderer().Render(out, run); err != nil {
		return err
	}

	logger.Info("report generated",
		zap.String("results", resultsPath),
		zap.String("report", outputFile),
		zap.Int("variants", len(run.Outcomes)))
	return nil
}
