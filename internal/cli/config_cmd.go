// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing for nitro-tui.
//
// Command: config [show|path|set]
//
// Examples:
//   nitro-tui config show
//   nitro-tui config path
//   nitro-tui config set default_model llama
//   nitro-tui config set default_language fa
package cli

import (
	"fmt"

	"github.com/jeranaias/nitro-tui/internal/config"
	"github.com/jeranaias/nitro-tui/internal/model"
)

// HandleConfig shows or edits the persisted configuration.
func HandleConfig(rt *Runtime, args Args) error {
	switch args.parser.Positional(1) {
	case "", "show":
		return configShow(rt)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(rt, args.parser.Positional(2), args.parser.Positional(3))
	default:
		return fmt.Errorf("unknown config subcommand: %s", args.parser.Positional(1))
	}
}

func configShow(rt *Runtime) error {
	cfg := rt.Config
	fmt.Printf("default_model:    %s\n", cfg.DefaultModel)
	fmt.Printf("default_language: %s\n", cfg.DefaultLanguage)
	fmt.Printf("backend.url:      %s\n", cfg.Backend.URL)
	fmt.Printf("backend.timeout:  %s\n", cfg.BackendTimeout())
	fmt.Printf("fallback.url:     %s\n", cfg.Fallback.URL)
	fmt.Printf("fallback.timeout: %s\n", cfg.FallbackTimeout())
	fmt.Printf("reveal.tick:      %s\n", cfg.RevealTick())
	fmt.Printf("reveal.divisor:   %d\n", cfg.Reveal.ChunkDivisor)
	fmt.Printf("quota.ceiling:    %d\n", cfg.Quota.Ceiling)
	fmt.Printf("ui.theme:         %s\n", cfg.UI.Theme)
	fmt.Printf("log.path:         %s\n", cfg.LogPath())
	return nil
}

// configSet edits one of the safe-to-change keys and persists the file.
func configSet(rt *Runtime, key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: config set KEY VALUE")
	}

	cfg := rt.Config
	switch key {
	case "default_model", "model":
		if !model.IsKnownModel(value) {
			return fmt.Errorf("unknown model: %s", value)
		}
		cfg.DefaultModel = value
	case "default_language", "language":
		if _, ok := model.ParseLanguage(value); !ok {
			return fmt.Errorf("unknown language: %s", value)
		}
		cfg.DefaultLanguage = value
	case "theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("theme must be dark or light")
		}
		cfg.UI.Theme = value
	default:
		return fmt.Errorf("unsupported key: %s (try default_model, default_language, theme)", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
