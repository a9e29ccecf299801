package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DatasetFile string `yaml:"dataset_file" envconfig:"DATASET_FILE" validate:"required"`
	OutputDir   string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig pins every tuning knob of the analytics run. The model
// seeds and hyperparameters are part of the output contract: changing any
// of them changes the exported artifacts.
type PipelineConfig struct {
	// Dataset bounds. Rows outside [MinYear, MaxYear] fail integrity
	// validation.
	MinYear int `yaml:"min_year" envconfig:"MIN_YEAR" validate:"min=1900"`
	MaxYear int `yaml:"max_year" envconfig:"MAX_YEAR" validate:"gtefield=MinYear"`

	// Feature engineering.
	RollingWindow int `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" validate:"min=1"`

	// Model training. Values mirror the reference analysis.
	TreeCount          int     `yaml:"tree_count" envconfig:"TREE_COUNT" validate:"min=1"`
	MaxDepth           int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"min=1"`
	MinSamplesSplit    int     `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT" validate:"min=2"`
	ForestSeed         int64   `yaml:"forest_seed" envconfig:"FOREST_SEED"`
	SplitSeed          int64   `yaml:"split_seed" envconfig:"SPLIT_SEED"`
	TestFraction       float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" validate:"gt=0,lt=1"`
	MinTrainingSamples int     `yaml:"min_training_samples" envconfig:"MIN_TRAINING_SAMPLES" validate:"min=1"`

	// Concurrency bound for per-partition training.
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"min=1"`
}

// Load loads configuration from environment variables, merged over an
// optional YAML file. Environment values take precedence.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom loads configuration using the given YAML file path. A missing
// file is not an error; the env/default values are used as-is.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment variables override file values; anything still unset
	// falls back to the documented defaults.
	if err := envconfig.Process("DBD", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the pinned default configuration without touching the
// environment. Tests use it as the reproducibility baseline.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks the configuration struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// applyDefaults fills zero values with the documented defaults, whether
// the config came from file, environment, or code.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "both"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/app.log"
	}
	if cfg.Paths.DatasetFile == "" {
		cfg.Paths.DatasetFile = "data/Kasus_DBD_Gabungan.csv"
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = "public/api"
	}
	if cfg.Paths.LogsDir == "" {
		cfg.Paths.LogsDir = "logs"
	}
	p := &cfg.Pipeline
	if p.MinYear == 0 {
		p.MinYear = 2000
	}
	if p.MaxYear == 0 {
		p.MaxYear = 2100
	}
	if p.RollingWindow == 0 {
		p.RollingWindow = 3
	}
	if p.TreeCount == 0 {
		p.TreeCount = 250
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = 15
	}
	if p.MinSamplesSplit == 0 {
		p.MinSamplesSplit = 5
	}
	if p.ForestSeed == 0 {
		p.ForestSeed = 2
	}
	if p.SplitSeed == 0 {
		p.SplitSeed = 42
	}
	if p.TestFraction == 0 {
		p.TestFraction = 0.2
	}
	if p.MinTrainingSamples == 0 {
		p.MinTrainingSamples = 10
	}
	if p.MaxConcurrency == 0 {
		p.MaxConcurrency = 4
	}
}

// configFilePath returns the config file location, overridable via
// DBD_CONFIG_FILE.
func configFilePath() string {
	if path := os.Getenv("DBD_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
