// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// nitro-tui.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/nitro-tui/internal/model"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.DefaultModel != model.DefaultModel {
		t.Errorf("DefaultModel = %q, want %q", cfg.DefaultModel, model.DefaultModel)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("Backend.TimeoutSecs = %d, want 30", cfg.Backend.TimeoutSecs)
	}
}

func TestLoadFromPath_ReadsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_model = "llama"
default_language = "Persian"

[backend]
url = "http://localhost:9000"
timeout_secs = 5

[reveal]
tick_millis = 15
chunk_divisor = 10
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.DefaultModel != "llama" {
		t.Errorf("DefaultModel = %q, want llama", cfg.DefaultModel)
	}
	if cfg.Language() != model.LanguagePersian {
		t.Errorf("Language = %q, want Persian", cfg.Language())
	}
	if cfg.Backend.URL != "http://localhost:9000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.BackendTimeout() != 5*time.Second {
		t.Errorf("BackendTimeout = %v, want 5s", cfg.BackendTimeout())
	}
	if cfg.RevealTick() != 15*time.Millisecond {
		t.Errorf("RevealTick = %v, want 15ms", cfg.RevealTick())
	}
	// Unset sections fall back to defaults.
	if cfg.Fallback.URL == "" || cfg.Quota.Ceiling != 50 {
		t.Error("unset sections should keep defaults")
	}
}

func TestLoadFromPath_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `default_model = "no-such-model"`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("unknown model should fail validation")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NITRO_MODEL", "qwen")
	t.Setenv("NITRO_BACKEND_URL", "http://127.0.0.1:8080")
	t.Setenv("NITRO_BACKEND_TIMEOUT", "7")
	t.Setenv("NITRO_DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.DefaultModel != "qwen" {
		t.Errorf("DefaultModel = %q, want qwen", cfg.DefaultModel)
	}
	if cfg.Backend.URL != "http://127.0.0.1:8080" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 7 {
		t.Errorf("Backend.TimeoutSecs = %d, want 7", cfg.Backend.TimeoutSecs)
	}
	if !cfg.Log.Debug {
		t.Error("Log.Debug should be true")
	}
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.DefaultModel = "deepseek"
	cfg.Reveal.ChunkDivisor = 25
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got.DefaultModel != "deepseek" {
		t.Errorf("DefaultModel = %q, want deepseek", got.DefaultModel)
	}
	if got.Reveal.ChunkDivisor != 25 {
		t.Errorf("ChunkDivisor = %d, want 25", got.Reveal.ChunkDivisor)
	}
}

func TestValidate_Theme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown theme should fail validation")
	}
}
