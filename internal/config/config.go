// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the API key goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"martedit/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string      `json:"log_level"`
	Model    ModelConfig `json:"model"`
	// EditRetries bounds the editor's repair loop; each retry is a paid
	// model call, so the bound stays small.
	EditRetries int `json:"edit_retries"`
}

// ModelConfig holds generation settings for the model endpoint.
type ModelConfig struct {
	Name            string  `json:"name"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
}

// Defaults returns the built-in configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Model: ModelConfig{
			Name:            "gemini-2.0-flash-001",
			Temperature:     0,
			MaxOutputTokens: 2048,
			TimeoutSeconds:  30,
		},
		EditRetries: 2,
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// MARTEDIT_MODEL overrides the configured model name.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(c), nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return applyEnv(fillZero(c)), nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// fillZero backfills defaults for fields an older config file omits.
func fillZero(c Config) Config {
	d := Defaults()
	if c.Model.Name == "" {
		c.Model.Name = d.Model.Name
	}
	if c.Model.MaxOutputTokens == 0 {
		c.Model.MaxOutputTokens = d.Model.MaxOutputTokens
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = d.Model.TimeoutSeconds
	}
	if c.EditRetries == 0 {
		c.EditRetries = d.EditRetries
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

func applyEnv(c Config) Config {
	if m := os.Getenv("MARTEDIT_MODEL"); m != "" {
		c.Model.Name = m
	}
	return c
}
