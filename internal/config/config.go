// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// nitro-tui.
//
// TOML configuration with sensible defaults and environment variable
// overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.nitro/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/nitro-tui/internal/model"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nitro-tui configuration.
type Config struct {
	// General settings
	Version         string `toml:"version"`
	DefaultModel    string `toml:"default_model"`
	DefaultLanguage string `toml:"default_language"`

	// Backend (primary path) configuration
	Backend BackendConfig `toml:"backend"`

	// Fallback (direct path) configuration
	Fallback FallbackConfig `toml:"fallback"`

	// Reveal (typing effect) configuration
	Reveal RevealConfig `toml:"reveal"`

	// Quota configuration
	Quota QuotaConfig `toml:"quota"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// BackendConfig contains primary chat backend configuration.
type BackendConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url"`
	// TimeoutSecs bounds the primary call so a hung backend cannot delay
	// fallback indefinitely.
	TimeoutSecs int `toml:"timeout_secs"`
}

// FallbackConfig contains the direct text-generation endpoint configuration.
type FallbackConfig struct {
	// URL is the fallback base URL.
	URL string `toml:"url"`
	// TimeoutSecs bounds the fallback call.
	TimeoutSecs int `toml:"timeout_secs"`
}

// RevealConfig tunes the typing effect.
type RevealConfig struct {
	// TickMillis is the reveal tick period in milliseconds.
	TickMillis int `toml:"tick_millis"`
	// ChunkDivisor sizes the per-tick step: ceil(len/divisor)+1 runes.
	ChunkDivisor int `toml:"chunk_divisor"`
}

// QuotaConfig contains the local message allowance settings.
type QuotaConfig struct {
	// Ceiling is the free-tier permitted-message count.
	Ceiling int `toml:"ceiling"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`
	// ShowTimestamps renders per-turn timestamps.
	ShowTimestamps bool `toml:"show_timestamps"`
	// SyntaxHighlight enables chroma highlighting of fenced code blocks.
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Path is the log file location (empty = ~/.nitro/nitro.log).
	Path string `toml:"path"`
	// Debug raises verbosity.
	Debug bool `toml:"debug"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:         "1.0.0",
		DefaultModel:    model.DefaultModel,
		DefaultLanguage: model.DefaultLanguage.String(),

		Backend: BackendConfig{
			URL:         "https://api.nitrochat.dev",
			TimeoutSecs: 30,
		},

		Fallback: FallbackConfig{
			URL:         "https://text.pollinations.ai",
			TimeoutSecs: 20,
		},

		Reveal: RevealConfig{
			TickMillis:   30,
			ChunkDivisor: 50,
		},

		Quota: QuotaConfig{
			Ceiling: 50,
		},

		UI: UIConfig{
			Theme:           "dark",
			ShowTimestamps:  false,
			SyntaxHighlight: true,
		},

		Log: LogConfig{
			Path:  "",
			Debug: false,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the nitro configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nitro"), nil
}

// ConfigPath returns the TOML config file location.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration, applying this precedence: config file,
// then environment overrides, then defaults for anything unset.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit file location. A
// missing file is not an error: defaults plus env overrides are returned.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration as TOML to an explicit location.
func SaveToPath(cfg *Config, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies NITRO_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	// NITRO_MODEL
	if m := os.Getenv("NITRO_MODEL"); m != "" {
		c.DefaultModel = m
	}

	// NITRO_LANGUAGE
	if l := os.Getenv("NITRO_LANGUAGE"); l != "" {
		c.DefaultLanguage = l
	}

	// NITRO_BACKEND_URL
	if u := os.Getenv("NITRO_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}

	// NITRO_FALLBACK_URL
	if u := os.Getenv("NITRO_FALLBACK_URL"); u != "" {
		c.Fallback.URL = u
	}

	// NITRO_BACKEND_TIMEOUT
	if t := os.Getenv("NITRO_BACKEND_TIMEOUT"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			c.Backend.TimeoutSecs = secs
		}
	}

	// NITRO_DEBUG
	if d := os.Getenv("NITRO_DEBUG"); d != "" {
		c.Log.Debug = d == "1" || strings.ToLower(d) == "true"
	}

	// NITRO_LOG_PATH
	if p := os.Getenv("NITRO_LOG_PATH"); p != "" {
		c.Log.Path = p
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills zero values with the built-in defaults.
func (c *Config) SetDefaults() {
	def := Default()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.DefaultModel == "" {
		c.DefaultModel = def.DefaultModel
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = def.DefaultLanguage
	}
	if c.Backend.URL == "" {
		c.Backend.URL = def.Backend.URL
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = def.Backend.TimeoutSecs
	}
	if c.Fallback.URL == "" {
		c.Fallback.URL = def.Fallback.URL
	}
	if c.Fallback.TimeoutSecs <= 0 {
		c.Fallback.TimeoutSecs = def.Fallback.TimeoutSecs
	}
	if c.Reveal.TickMillis <= 0 {
		c.Reveal.TickMillis = def.Reveal.TickMillis
	}
	if c.Reveal.ChunkDivisor <= 0 {
		c.Reveal.ChunkDivisor = def.Reveal.ChunkDivisor
	}
	if c.Quota.Ceiling <= 0 {
		c.Quota.Ceiling = def.Quota.Ceiling
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		errs = append(errs, ValidationError{Field: "backend.url", Message: "not a valid URL"})
	}
	if _, err := url.ParseRequestURI(c.Fallback.URL); err != nil {
		errs = append(errs, ValidationError{Field: "fallback.url", Message: "not a valid URL"})
	}
	if !model.IsKnownModel(c.DefaultModel) {
		errs = append(errs, ValidationError{Field: "default_model", Message: "unknown model " + c.DefaultModel})
	}
	if _, ok := model.ParseLanguage(c.DefaultLanguage); !ok {
		errs = append(errs, ValidationError{Field: "default_language", Message: "unknown language " + c.DefaultLanguage})
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		errs = append(errs, ValidationError{Field: "ui.theme", Message: "must be dark or light"})
	}

	return errors.Join(errs...)
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// BackendTimeout returns the primary-path timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// FallbackTimeout returns the fallback-path timeout as a duration.
func (c *Config) FallbackTimeout() time.Duration {
	return time.Duration(c.Fallback.TimeoutSecs) * time.Second
}

// RevealTick returns the reveal tick period as a duration.
func (c *Config) RevealTick() time.Duration {
	return time.Duration(c.Reveal.TickMillis) * time.Millisecond
}

// Language returns the default language as a typed value.
func (c *Config) Language() model.Language {
	if lang, ok := model.ParseLanguage(c.DefaultLanguage); ok {
		return lang
	}
	return model.DefaultLanguage
}

// LogPath returns the log file location, resolving the default.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return "nitro.log"
	}
	return filepath.Join(dir, "nitro.log")
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}
