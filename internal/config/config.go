// Package config loads the settings shared by the CLI and the MCP server.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file, and IOS_SCREENSHOT_* environment variables. Command-line flags
// are applied on top by the binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigPath  = "IOS_SCREENSHOT_CONFIG"
	EnvOutputDir   = "IOS_SCREENSHOT_OUTPUT_DIR"
	EnvMaxWidth    = "IOS_SCREENSHOT_MAX_WIDTH"
	EnvXcrun       = "IOS_SCREENSHOT_XCRUN"
	EnvLogLevel    = "IOS_SCREENSHOT_LOG_LEVEL"
	EnvMetricsAddr = "IOS_SCREENSHOT_METRICS_ADDR"
)

// Config is the full application configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Capture CaptureConfig `yaml:"capture"`
	OCR     OCRConfig     `yaml:"ocr"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// OutputConfig controls where screenshots are written.
type OutputConfig struct {
	// Root is the root directory; empty means the working directory.
	Root string `yaml:"root"`

	// Subdirectory is created under Root unless UseRootDirectly is set.
	Subdirectory string `yaml:"subdirectory"`

	UseRootDirectly bool `yaml:"use_root_directly"`
}

// CaptureConfig controls the capture command and image post-processing.
type CaptureConfig struct {
	MaxWidth       int           `yaml:"max_width"`
	MaxBufferBytes int           `yaml:"max_buffer_bytes"`
	Timeout        time.Duration `yaml:"timeout"`
	XcrunPath      string        `yaml:"xcrun_path"`
}

// OCRConfig controls text extraction.
type OCRConfig struct {
	Language string `yaml:"language"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the optional HTTP listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Subdirectory: ".screenshots",
		},
		Capture: CaptureConfig{
			MaxWidth:       640,
			MaxBufferBytes: 50 * 1024 * 1024,
			Timeout:        60 * time.Second,
			XcrunPath:      "xcrun",
		},
		OCR: OCRConfig{Language: "eng"},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// $IOS_SCREENSHOT_CONFIG when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvOutputDir); v != "" {
		c.Output.Root = v
		c.Output.UseRootDirectly = true
	}
	if v := getenv(EnvMaxWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxWidth, v, err)
		}
		c.Capture.MaxWidth = n
	}
	if v := getenv(EnvXcrun); v != "" {
		c.Capture.XcrunPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Capture.MaxWidth <= 0 {
		errs = append(errs, fmt.Errorf("capture.max_width must be positive, got %d", c.Capture.MaxWidth))
	}
	if c.Capture.MaxBufferBytes <= 0 {
		errs = append(errs, fmt.Errorf("capture.max_buffer_bytes must be positive, got %d", c.Capture.MaxBufferBytes))
	}
	if c.Capture.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("capture.timeout must be positive, got %s", c.Capture.Timeout))
	}
	if c.Capture.XcrunPath == "" {
		errs = append(errs, errors.New("capture.xcrun_path must not be empty"))
	}
	return errors.Join(errs...)
}
