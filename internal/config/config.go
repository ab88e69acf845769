// Package config loads calculator driver settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Error policies for a line that fails to evaluate.
const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"
)

// DefaultPrompt is the prompt printed before each interactive line.
const DefaultPrompt = "input expr: "

// Config holds driver settings. The calc package itself takes no
// configuration.
type Config struct {
	Prompt      string `toml:"prompt" yaml:"prompt"`
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	OnError     string `toml:"on_error" yaml:"on_error"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	Color       bool   `toml:"color" yaml:"color"`
	ShowTree    bool   `toml:"show_tree" yaml:"show_tree"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:   DefaultPrompt,
		OnError:  OnErrorSkip,
		LogLevel: "warn",
		Color:    true,
	}
}

// Load reads path over the defaults. An empty path returns Default().
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.OnError {
	case OnErrorSkip, OnErrorAbort:
	default:
		return fmt.Errorf("on_error must be %q or %q, got %q", OnErrorSkip, OnErrorAbort, c.OnError)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
