// ABOUTME: Configuration loading and parsing for the chatwidget hosts
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the complete chatwidget host configuration
type Config struct {
	Widget  WidgetConfig  `yaml:"widget" toml:"widget"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WidgetConfig holds the options passed to CreateWidget
type WidgetConfig struct {
	APIBase string `yaml:"api_base" toml:"api_base"`
	Title   string `yaml:"title" toml:"title"`
	// Origin is the host page origin the widget believes it runs under.
	// It scopes stored identity and is the last-resort API base.
	Origin string `yaml:"origin" toml:"origin"`

	PollInterval   time.Duration `yaml:"-" toml:"-"`
	TypingInterval time.Duration `yaml:"-" toml:"-"`
	RequestTimeout time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	PollIntervalRaw   string `yaml:"poll_interval" toml:"poll_interval"`
	TypingIntervalRaw string `yaml:"typing_interval" toml:"typing_interval"`
	RequestTimeoutRaw string `yaml:"request_timeout" toml:"request_timeout"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
	// SignalDir is watched for cross-process config signals. Empty disables it.
	SignalDir string `yaml:"signal_dir" toml:"signal_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// File, when set, receives a rotated copy of the log.
	File string `yaml:"file" toml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Widget: WidgetConfig{
			Origin: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Path: "./chatwidget.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if c.Widget.Origin != "" {
		u, err := url.Parse(c.Widget.Origin)
		if err != nil {
			return fmt.Errorf("widget.origin is not a valid URL: %w", err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("widget.origin must be an absolute URL")
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"poll_interval", cfg.Widget.PollIntervalRaw, &cfg.Widget.PollInterval},
		{"typing_interval", cfg.Widget.TypingIntervalRaw, &cfg.Widget.TypingInterval},
		{"request_timeout", cfg.Widget.RequestTimeoutRaw, &cfg.Widget.RequestTimeout},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}

	return nil
}
