// Package main provides the alphagenome command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/deluair/alphagenome/internal/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Resolved once in the root command's PersistentPreRunE and shared by all
// subcommands.
var (
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	os.Exit(run())
}

func run() int {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		apiKey  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "alphagenome",
		Short: "Batch variant effect analysis with the AlphaGenome API",
		Long: `alphagenome submits genomic variants to the AlphaGenome prediction API,
caches results locally, and renders JSON result files and HTML reports.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cfgFile, apiKey, verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.alphagenome.yaml)")
	cmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "AlphaGenome API key (overrides config and environment)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initApp resolves configuration and builds the shared logger.
func initApp(cfgFile, apiKey string, verbose bool) error {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName(config.FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
		// A missing default config file is fine.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	if apiKey != "" {
		v.Set("api.key", apiKey)
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	logger, err = newLogger(verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	return nil
}

// newLogger builds a console logger; verbose enables debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}
