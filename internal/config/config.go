// Package config loads toolkit configuration from file, environment and
// flags via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/deluair/alphagenome/internal/predict"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// ALPHAGENOME_API_KEY.
const EnvPrefix = "ALPHAGENOME"

// FileName is the config file basename looked up in the home directory.
const FileName = ".alphagenome"

// Config is the resolved toolkit configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
}

// APIConfig configures the prediction client.
type APIConfig struct {
	Key         string `mapstructure:"key"`
	BaseURL     string `mapstructure:"base_url"`
	RateLimit   int    `mapstructure:"rate_limit"` // requests per minute
	MaxAttempts int    `mapstructure:"max_attempts"`
	TimeoutSecs int    `mapstructure:"timeout_seconds"`
}

// AnalysisConfig configures batch processing.
type AnalysisConfig struct {
	IntervalSize int64    `mapstructure:"default_interval_size"`
	Workers      int      `mapstructure:"workers"`
	CacheResults bool     `mapstructure:"cache_results"`
	Assays       []string `mapstructure:"assays"`
}

// OutputConfig configures result and cache locations.
type OutputConfig struct {
	Directory string `mapstructure:"base_directory"`
	CachePath string `mapstructure:"cache_path"` // empty means <base_directory>/cache.duckdb
}

// SetDefaults registers defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	// api.key defaults to empty so environment-only values survive Unmarshal.
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", predict.DefaultBaseURL)
	v.SetDefault("api.rate_limit", predict.DefaultRateLimit)
	v.SetDefault("api.max_attempts", predict.DefaultMaxAttempts)
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("analysis.default_interval_size", predict.DefaultIntervalSize)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.cache_results", true)
	v.SetDefault("output.base_directory", "./results")
}

// BindEnv wires ALPHAGENOME_* environment variables, with dots mapped to
// underscores (api.key -> ALPHAGENOME_API_KEY).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load resolves the configuration from a prepared viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.API.RateLimit < 0 {
		return nil, fmt.Errorf("api.rate_limit must not be negative, got %d", cfg.API.RateLimit)
	}
	if cfg.Analysis.Workers < 1 {
		return nil, fmt.Errorf("analysis.workers must be at least 1, got %d", cfg.Analysis.Workers)
	}
	return &cfg, nil
}
