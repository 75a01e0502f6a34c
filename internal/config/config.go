// Package config holds the battmerge runtime configuration, loaded from an
// optional YAML file with BATTMERGE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Duration is a time.Duration that decodes from "1h6m" style strings in
// both YAML documents and environment variables.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	v, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Batch   BatchConfig   `yaml:"batch" envconfig:"BATCH"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// BatchConfig controls sequence grouping.
type BatchConfig struct {
	// MaxGap is the largest inter-capture gap that keeps two files in the
	// same sequence. 1h6m tolerates a 60-minute cadence plus jitter.
	MaxGap Duration `yaml:"max_gap" envconfig:"MAX_GAP"`
}

// ChartConfig controls the optional voltage chart rendering.
type ChartConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
	// ColumnMatch selects the voltage column family: any column whose name
	// contains this substring (case-insensitive) is plotted.
	ColumnMatch string `yaml:"column_match" envconfig:"COLUMN_MATCH"`
	// TimeColumn names the timestamp column. Empty means autodetect: the
	// first column whose cells parse as timestamps.
	TimeColumn       string   `yaml:"time_column" envconfig:"TIME_COLUMN"`
	ResampleInterval Duration `yaml:"resample_interval" envconfig:"RESAMPLE_INTERVAL"`
	Width            int      `yaml:"width" envconfig:"WIDTH"`
	Height           int      `yaml:"height" envconfig:"HEIGHT"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variable overrides, in that order of precedence (later wins).
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
		}
	}

	if err := envconfig.Process("BATTMERGE", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration with every field at its default value.
func Default() *Config {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/battmerge.log",
		},
		Batch: BatchConfig{
			MaxGap: Duration(66 * time.Minute),
		},
		Chart: ChartConfig{
			Enabled:          true,
			ColumnMatch:      "voltage",
			ResampleInterval: Duration(30 * time.Second),
			Width:            1280,
			Height:           720,
		},
	}
	return cfg
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("unknown log output %q", c.Logging.Output)
	}
	if c.Batch.MaxGap <= 0 {
		return fmt.Errorf("batch.max_gap must be positive, got %s", c.Batch.MaxGap)
	}
	if c.Chart.ResampleInterval <= 0 {
		return fmt.Errorf("chart.resample_interval must be positive, got %s", c.Chart.ResampleInterval)
	}
	if c.Chart.ColumnMatch == "" {
		return fmt.Errorf("chart.column_match must not be empty")
	}
	return nil
}
