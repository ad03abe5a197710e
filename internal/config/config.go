package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration. Values come from an
// optional YAML file overridden by FLOOD_* environment variables.
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
	Archive ArchiveConfig `yaml:"archive" envconfig:"ARCHIVE"`
}

// InputConfig locates the raw contract sheet.
type InputConfig struct {
	Path   string `yaml:"path" envconfig:"PATH"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=auto csv xlsx"`
}

// OutputConfig controls where and how report artifacts are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR" validate:"required"`
	IncludeBOM bool   `yaml:"include_bom" envconfig:"INCLUDE_BOM"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig controls the OpenTelemetry trace exporter.
type TracingConfig struct {
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=stdout none"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// ArchiveConfig configures the optional Postgres report archive. An empty
// DSN disables archiving entirely.
type ArchiveConfig struct {
	DSN string `yaml:"dsn" envconfig:"DSN"`
}

// Enabled reports whether a run should be archived.
func (a ArchiveConfig) Enabled() bool {
	return a.DSN != ""
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is empty the common locations are probed; a missing file is not an
// error), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("FLOOD", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile merges the YAML file at path over cfg.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate applies the struct tags plus the checks tags cannot express.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path required for output mode %q", c.Logging.Output)
	}

	return nil
}

// findConfigFile probes the common config file locations and returns the
// first that exists, or "" when configuration comes from env alone.
func findConfigFile() string {
	locations := []string{
		"floodctl.yaml",
		"configs/floodctl.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns a working configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:   "dpwh_flood_control_projects.csv",
			Format: "auto",
		},
		Output: OutputConfig{
			Dir:        "reports",
			IncludeBOM: false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/floodctl.log",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			SampleRatio: 1.0,
		},
	}
}
