// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for nitro-tui.
package cli

import (
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/jeranaias/nitro-tui/internal/auth"
	"github.com/jeranaias/nitro-tui/internal/config"
	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/quota"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies the CLI command to run.
type Command int

const (
	CmdTUI Command = iota // default when no subcommand is given
	CmdAsk
	CmdChat
	CmdAuth
	CmdConfig
	CmdModels
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	Model    string
	Language string
	Quiet    bool
	Verbose  bool
	JSON     bool

	// Multi-word prompt for ask
	Query string

	parser *ArgParser
}

// Runtime carries the shared services commands run against. main builds
// one of these from config and hands it to every handler.
type Runtime struct {
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
	Gate       *quota.Gate
	AuthStore  *auth.Store
	Identity   auth.Identity
	Logger     *charmlog.Logger
}

// EffectiveLanguage resolves the language: flag first, then config.
func (a Args) EffectiveLanguage(cfg *config.Config) model.Language {
	if a.Language != "" {
		if lang, ok := model.ParseLanguage(a.Language); ok {
			return lang
		}
	}
	return cfg.Language()
}

// EffectiveModel resolves the effective model: flag first, then config.
func (a Args) EffectiveModel(cfg *config.Config) string {
	if a.Model != "" && model.IsKnownModel(a.Model) {
		return a.Model
	}
	return cfg.DefaultModel
}

// =============================================================================
// PARSING
// =============================================================================

// Parse interprets os.Args[1:]-style raw arguments.
func Parse(raw []string) Args {
	p := NewArgParser(raw)

	args := Args{
		Command:  CmdTUI,
		Model:    p.FlagOrDefault("model", p.Flag("m")),
		Language: p.FlagOrDefault("language", p.Flag("lang")),
		Quiet:    p.BoolFlag("quiet") || p.BoolFlag("q"),
		Verbose:  p.BoolFlag("verbose") || p.BoolFlag("v"),
		JSON:     p.BoolFlag("json"),
		parser:   p,
	}

	switch p.Subcommand() {
	case "":
		args.Command = CmdTUI
	case "ask":
		args.Command = CmdAsk
		args.Query = strings.Join(p.PositionalFrom(1), " ")
	case "chat":
		args.Command = CmdChat
	case "auth":
		args.Command = CmdAuth
	case "config":
		args.Command = CmdConfig
	case "models":
		args.Command = CmdModels
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	default:
		// Unknown subcommands fall through to help with an error note.
		args.Command = CmdHelp
	}

	if p.BoolFlag("help") || p.BoolFlag("h") {
		args.Command = CmdHelp
	}
	if p.BoolFlag("version") {
		args.Command = CmdVersion
	}

	return args
}

// =============================================================================
// DISPATCH
// =============================================================================

const usageText = `nitro - multi-model AI chat for the terminal

Usage:
  nitro-tui                      Start the TUI (default)
  nitro-tui ask "question"       Ask a single question
  nitro-tui chat                 Plain-terminal interactive chat
  nitro-tui auth [subcommand]    Manage the stored identity
  nitro-tui config [subcommand]  Show or edit configuration
  nitro-tui models               List available models
  nitro-tui version              Show version information

Flags:
  -m, --model NAME      Use a specific model
  --language LANG       Response language (en, fa, ar)
  --json                Machine-readable output for ask
  -q, --quiet           Minimal output
  -v, --verbose         Verbose output

Auth subcommands:
  auth show             Show the stored identity
  auth login --email ADDR [--admin]
  auth logout           Clear the stored identity

Config subcommands:
  config show           Print the active configuration
  config path           Print the config file path
  config set KEY VALUE  Set default_model or default_language

Environment:
  NITRO_MODEL, NITRO_LANGUAGE, NITRO_BACKEND_URL, NITRO_FALLBACK_URL,
  NITRO_BACKEND_TIMEOUT, NITRO_LOG_PATH, NITRO_DEBUG
`

// Run executes the parsed command. CmdTUI is handled by main, not here.
func Run(rt *Runtime, args Args) error {
	switch args.Command {
	case CmdAsk:
		return HandleAsk(rt, args)
	case CmdChat:
		return HandleChat(rt, args)
	case CmdAuth:
		return HandleAuth(rt, args)
	case CmdConfig:
		return HandleConfig(rt, args)
	case CmdModels:
		return HandleModels(args)
	case CmdVersion:
		fmt.Printf("nitro-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return nil
	case CmdHelp:
		fmt.Fprint(os.Stdout, usageText)
		return nil
	default:
		return fmt.Errorf("unhandled command %d", args.Command)
	}
}

// HandleModels prints the model registry.
func HandleModels(args Args) error {
	for _, id := range model.ModelIDs() {
		info, _ := model.GetModelInfo(id)
		if args.Quiet {
			fmt.Println(id)
			continue
		}
		fmt.Printf("%-10s %s\n", id, info.Name)
	}
	return nil
}
