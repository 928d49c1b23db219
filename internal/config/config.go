// Package config loads startup options from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kitkattimer/internal/core/model"
	"kitkattimer/internal/snp"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "kitkattimer"
	configFileName = "config.yaml"
)

// Config holds startup options. Nothing here changes while the tray is running.
type Config struct {
	Address         string        `yaml:"address"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	IdleThreshold   time.Duration `yaml:"idle_threshold"`
	IdlePoll        time.Duration `yaml:"idle_poll"`
	DefaultInterval time.Duration `yaml:"default_interval"`
	Debug           bool          `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Address:         snp.DefaultAddress,
		DialTimeout:     2 * time.Second,
		TickInterval:    time.Second,
		IdleThreshold:   5 * time.Minute,
		IdlePoll:        5 * time.Second,
		DefaultInterval: model.DefaultInterval.Duration(),
	}
}

// Interval returns the break interval checked at startup.
func (cfg *Config) Interval() model.BreakInterval {
	return model.BreakInterval(cfg.DefaultInterval)
}

// Load reads path, or the default location when path is empty, then applies
// KITKAT_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultPath() string {
	if path := os.Getenv("KITKAT_CONFIG"); path != "" {
		return path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, appDirName, configFileName)
}

func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - path comes from the command line or the user config dir
	rawData, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(rawData, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if address := os.Getenv("KITKAT_ADDRESS"); address != "" {
		cfg.Address = address
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{name: "KITKAT_DIAL_TIMEOUT", target: &cfg.DialTimeout},
		{name: "KITKAT_DEFAULT_INTERVAL", target: &cfg.DefaultInterval},
	}
	for _, entry := range durations {
		value := os.Getenv(entry.name)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", entry.name, err)
		}
		*entry.target = parsed
	}

	if debug := os.Getenv("KITKAT_DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "true", "1", "yes":
			cfg.Debug = true
		case "false", "0", "no":
			cfg.Debug = false
		default:
			return fmt.Errorf("invalid KITKAT_DEBUG value: %q (use true/false)", debug)
		}
	}
	return nil
}

func validate(cfg *Config) error {
	host, _, err := net.SplitHostPort(cfg.Address)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	// The notification daemon only listens on this machine.
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("address %q must be a loopback IP", cfg.Address)
	}
	if cfg.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if cfg.IdleThreshold <= 0 {
		return fmt.Errorf("idle_threshold must be positive")
	}
	if cfg.IdlePoll <= 0 {
		return fmt.Errorf("idle_poll must be positive")
	}
	if model.PresetIndex(cfg.Interval()) < 0 {
		labels := make([]string, 0, len(model.Presets()))
		for _, preset := range model.Presets() {
			labels = append(labels, preset.Duration().String())
		}
		return fmt.Errorf("default_interval %v is not one of %s", cfg.DefaultInterval, strings.Join(labels, ", "))
	}
	return nil
}
