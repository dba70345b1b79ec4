package config

import (
	"strings"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Compare    CompareConfig `yaml:"compare" toml:"compare"`
	Flat       FlatConfig    `yaml:"flat" toml:"flat"`
	Output     OutputConfig  `yaml:"output" toml:"output"`
	Logging    LoggingConfig `yaml:"logging" toml:"logging"`
	Ignore     []string      `yaml:"ignore" toml:"ignore"`
	IgnoreFile string        `yaml:"ignore_file" toml:"ignore_file"`
	ReadLimit  string        `yaml:"read_limit" toml:"read_limit"` // e.g. "20MiB", empty = unlimited
}

// CompareConfig holds hierarchy comparison settings
type CompareConfig struct {
	Method          models.ComparisonMethod `yaml:"method" toml:"method"`
	CaseInsensitive bool                    `yaml:"case_insensitive" toml:"case_insensitive"`
	Verify          bool                    `yaml:"verify" toml:"verify"`
}

// FlatConfig holds flat comparison settings
type FlatConfig struct {
	FullHash   bool   `yaml:"full_hash" toml:"full_hash"`
	Algorithm  string `yaml:"algorithm" toml:"algorithm"`     // "sha256", "blake3" or "xxhash"
	Workers    int    `yaml:"workers" toml:"workers"`         // 0 = one per CPU
	BufferSize int    `yaml:"buffer_size" toml:"buffer_size"` // read buffer for full hashes
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format"`     // "text", "markdown" or "json"
	Progress bool   `yaml:"progress" toml:"progress"` // Show a progress bar in flat mode
	Quiet    bool   `yaml:"quiet" toml:"quiet"`       // Suppress logging
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format      string `yaml:"format" toml:"format"`           // "json" or "text"
	Level       string `yaml:"level" toml:"level"`             // "debug", "info", "warn", "error"
	File        string `yaml:"file" toml:"file"`               // Log file path (empty = destination)
	Destination string `yaml:"destination" toml:"destination"` // "stderr", "stdout" or "file"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Method: models.CompareSampled,
		},
		Flat: FlatConfig{
			Algorithm:  string(hashing.SHA256),
			Workers:    0,
			BufferSize: hashing.DefaultBufferSize,
		},
		Output: OutputConfig{
			Format:   "text",
			Progress: false,
		},
		Logging: LoggingConfig{
			Format:      "text",
			Level:       "warn",
			Destination: "stderr",
		},
		Ignore: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseComparisonMethod(string(c.Compare.Method)); err != nil {
		return &models.ValidationError{
			Field:   "compare.method",
			Message: "must be 'name', 'size', 'hash' or 'sampled'",
		}
	}

	if _, err := hashing.ParseAlgorithm(c.Flat.Algorithm); err != nil {
		return &models.ValidationError{
			Field:   "flat.algorithm",
			Message: "must be 'sha256', 'blake3' or 'xxhash'",
		}
	}

	if c.Flat.Workers < 0 {
		return &models.ValidationError{
			Field:   "flat.workers",
			Message: "must not be negative",
		}
	}

	if c.Flat.BufferSize != 0 && c.Flat.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "flat.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if _, err := ratelimit.ParseRate(c.ReadLimit); err != nil {
		return &models.ValidationError{
			Field:   "read_limit",
			Message: "must be a byte size such as '20MiB' or '500KB'",
		}
	}

	validFormats := map[string]bool{"text": true, "markdown": true, "json": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'text', 'markdown' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	validDestinations := map[string]bool{"": true, "stderr": true, "stdout": true, "file": true}
	if !validDestinations[c.Logging.Destination] {
		return &models.ValidationError{
			Field:   "logging.destination",
			Message: "must be 'stderr', 'stdout' or 'file'",
		}
	}

	if c.Logging.Destination == "file" && c.Logging.File == "" {
		return &models.ValidationError{
			Field:   "logging.file",
			Message: "required when destination is 'file'",
		}
	}

	return nil
}
