// ABOUTME: YAML configuration for the rate-change tools
// ABOUTME: Defaults, loading with fallback, saving and validation
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Report ReportConfig `yaml:"report"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// OutputConfig controls where and how transformed audio is written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`       // Empty disables saving
	FileName string `yaml:"file_name"` // Base name without extension
	Format   string `yaml:"format"`    // "wav" or "flac"
	BitDepth int    `yaml:"bit_depth"` // 16 or 24; 0 keeps the source depth
}

// ReportConfig controls the comparison chart.
type ReportConfig struct {
	Dir      string `yaml:"dir"`       // Empty disables report files
	BarWidth int    `yaml:"bar_width"` // Cells used by the longest bar
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr             string        `yaml:"addr"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	MaxResultSamples int64         `yaml:"max_result_samples"` // Frames times channels a transform may produce
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Also log to this file when set
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			FileName: "new_file",
			Format:   "wav",
		},
		Report: ReportConfig{
			BarWidth: 40,
		},
		Server: ServerConfig{
			Addr:             ":8080",
			MaxUploadBytes:   64 << 20,
			MaxResultSamples: 256 << 20,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "wav", "flac":
	default:
		return fmt.Errorf("invalid output format %q (supported: wav, flac)", c.Output.Format)
	}

	switch c.Output.BitDepth {
	case 0, 16, 24:
	default:
		return fmt.Errorf("invalid output bit depth %d (supported: 16, 24)", c.Output.BitDepth)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("invalid max upload size %d", c.Server.MaxUploadBytes)
	}
	if c.Server.MaxResultSamples < 0 {
		return fmt.Errorf("invalid max result samples %d", c.Server.MaxResultSamples)
	}
	return nil
}

// OutputExtension returns the output file extension with the dot.
func (c *Config) OutputExtension() string {
	return "." + strings.ToLower(c.Output.Format)
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Output.FileName == "" {
		c.Output.FileName = def.Output.FileName
	}
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}

	if c.Report.BarWidth <= 0 {
		c.Report.BarWidth = def.Report.BarWidth
	}

	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = def.Server.MaxUploadBytes
	}
	if c.Server.MaxResultSamples == 0 {
		c.Server.MaxResultSamples = def.Server.MaxResultSamples
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = def.Server.AllowedOrigins
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
