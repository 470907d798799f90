// Package config provides configuration parsing for luna-display.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the luna-display configuration. Layout constants
// (line threshold, scroll step, pixel positions) are deliberately not
// configurable.
type Config struct {
	// Display holds display hardware settings.
	Display DisplayConfig `yaml:"display"`

	// Ollama holds model service settings.
	Ollama OllamaConfig `yaml:"ollama"`

	// Message holds message refresh settings.
	Message MessageConfig `yaml:"message"`

	// Loop holds display loop settings.
	Loop LoopConfig `yaml:"loop"`
}

// DisplayConfig holds display hardware settings.
type DisplayConfig struct {
	// I2CBus is the I2C bus name or number (e.g. "1", "/dev/i2c-1").
	// Empty selects the first available bus.
	I2CBus string `yaml:"i2c_bus"`
	// SplashPath is an optional boot logo image shown until the first
	// frame. Empty disables the splash.
	SplashPath string `yaml:"splash_path"`
}

// OllamaConfig holds model service settings.
type OllamaConfig struct {
	// URL is the base URL of the Ollama-compatible service.
	URL string `yaml:"url"`
	// Model is the model name passed to /api/generate.
	Model string `yaml:"model"`
	// Timeout is a duration string bounding each generation request.
	Timeout string `yaml:"timeout"`
}

// MessageConfig holds message refresh settings.
type MessageConfig struct {
	// RefreshInterval is a duration string between message refreshes.
	RefreshInterval string `yaml:"refresh_interval"`
}

// LoopConfig holds display loop settings.
type LoopConfig struct {
	// TickInterval is a duration string between display updates.
	TickInterval string `yaml:"tick_interval"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			I2CBus:     "",
			SplashPath: "",
		},
		Ollama: OllamaConfig{
			URL:     "http://127.0.0.1:11434",
			Model:   "llama3.2",
			Timeout: "30s",
		},
		Message: MessageConfig{
			RefreshInterval: "5m",
		},
		Loop: LoopConfig{
			TickInterval: "1s",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "luna-display", "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and parseable
// duration strings.
func (c *Config) Validate() error {
	if c.Ollama.URL == "" {
		return fmt.Errorf("ollama.url is required")
	}
	if c.Ollama.Model == "" {
		return fmt.Errorf("ollama.model is required")
	}

	for _, d := range []struct {
		field string
		value string
	}{
		{"ollama.timeout", c.Ollama.Timeout},
		{"message.refresh_interval", c.Message.RefreshInterval},
		{"loop.tick_interval", c.Loop.TickInterval},
	} {
		if d.value == "" {
			return fmt.Errorf("%s is required", d.field)
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s: invalid duration %q", d.field, d.value)
		}
	}

	if c.Display.SplashPath != "" {
		if _, err := os.Stat(c.Display.SplashPath); err != nil {
			return fmt.Errorf("display.splash_path: %w", err)
		}
	}

	return nil
}

// Timeout returns the parsed Ollama request timeout.
func (c *Config) Timeout() time.Duration {
	return mustDuration(c.Ollama.Timeout, 30*time.Second)
}

// RefreshInterval returns the parsed message refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	return mustDuration(c.Message.RefreshInterval, 5*time.Minute)
}

// TickInterval returns the parsed display loop tick interval.
func (c *Config) TickInterval() time.Duration {
	return mustDuration(c.Loop.TickInterval, time.Second)
}

// mustDuration parses a duration string, falling back to def on error.
func mustDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
