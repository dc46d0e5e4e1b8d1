// Package config provides configuration loading from a YAML file and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration, assembled from YAML + env.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Touch  TouchConfig  `yaml:"touch"`
	Record RecordConfig `yaml:"record"`
}

// DeviceConfig selects and sets up the Stream Deck.
type DeviceConfig struct {
	// Serial picks a specific device; empty means the first one found.
	Serial     string `yaml:"serial" env:"TOUCHDECK_DEVICE_SERIAL"`
	Brightness uint8  `yaml:"brightness" env:"TOUCHDECK_BRIGHTNESS"`
}

// TouchConfig controls how raw strip gestures become touch samples.
type TouchConfig struct {
	// DeviceID is reported as TouchArgs.Device for samples from the strip.
	DeviceID int64 `yaml:"device_id" env:"TOUCHDECK_TOUCH_DEVICE_ID"`
	// Strict rejects samples that fail TouchArgs.Validate.
	Strict bool `yaml:"strict" env:"TOUCHDECK_TOUCH_STRICT"`
	// SwipeSteps is the number of Move samples synthesized per swipe.
	SwipeSteps int `yaml:"swipe_steps" env:"TOUCHDECK_SWIPE_STEPS"`
	// TrailLength is how many recent samples the strip feedback shows.
	TrailLength int `yaml:"trail_length" env:"TOUCHDECK_TRAIL_LENGTH"`
}

// RecordConfig controls recording of touch samples.
type RecordConfig struct {
	// Path of the YAML recording; empty disables recording.
	Path string `yaml:"path" env:"TOUCHDECK_RECORD_PATH"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{Brightness: 80},
		Touch: TouchConfig{
			SwipeSteps:  4,
			TrailLength: 16,
		},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "touchdeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("TOUCHDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the default YAML file + environment variables.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile assembles configuration from the given YAML file + environment
// variables. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// 1. YAML file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Environment variables override everything
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Device.Brightness > 100 {
		return fmt.Errorf("device.brightness must be 0-100, got %d", c.Device.Brightness)
	}
	if c.Touch.SwipeSteps < 0 {
		return fmt.Errorf("touch.swipe_steps must not be negative, got %d", c.Touch.SwipeSteps)
	}
	if c.Touch.TrailLength < 1 {
		return fmt.Errorf("touch.trail_length must be at least 1, got %d", c.Touch.TrailLength)
	}
	return nil
}

// WriteConfigFile writes the config to the default YAML file.
func WriteConfigFile(cfg *Config) error {
	return WriteFile(DefaultConfigPath(), cfg)
}

// WriteFile writes the config to path, creating parent directories.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
