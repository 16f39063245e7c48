// nitro TUI - a multi-model AI chat client for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/jeranaias/nitro-tui/internal/auth"
	"github.com/jeranaias/nitro-tui/internal/cli"
	"github.com/jeranaias/nitro-tui/internal/config"
	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/history"
	"github.com/jeranaias/nitro-tui/internal/logging"
	"github.com/jeranaias/nitro-tui/internal/quota"
	"github.com/jeranaias/nitro-tui/internal/reveal"
	"github.com/jeranaias/nitro-tui/internal/session"
	"github.com/jeranaias/nitro-tui/internal/ui/chat"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// A .env next to the binary is a convenience for development.
	_ = godotenv.Load()

	args := cli.Parse(os.Args[1:])

	cfg := config.Global()

	logger, closeLog, err := logging.Setup(cfg.LogPath(), cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger, _, _ = logging.Setup("", false)
	}
	if closeLog != nil {
		defer closeLog()
	}

	rt, cleanup := buildRuntime(cfg, logger)
	defer cleanup()

	if args.Command == cli.CmdTUI {
		runTUI(rt, args)
		return
	}

	if err := cli.Run(rt, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildRuntime assembles the shared services every command runs against.
func buildRuntime(cfg *config.Config, logger *charmlog.Logger) (*cli.Runtime, func()) {
	// Identity store; a broken database degrades to guest rather than
	// blocking startup.
	var authStore *auth.Store
	identity := auth.Guest()

	dbPath, err := auth.DefaultDBPath()
	if err == nil {
		authStore, err = auth.OpenStore(dbPath)
	}
	if err != nil {
		logger.Warn("identity store unavailable, running as guest", "err", err)
		authStore = nil
	}
	if authStore != nil {
		identity = authStore.LoadOrGuest()
	}

	gate := quota.NewGate(cfg.Quota.Ceiling)
	gate.SetIdentity(identity.IsAdmin, identity.MessageCount, identity.SubscriptionExpiry)

	dispatcher := dispatch.NewDispatcher().
		WithBackend(dispatch.NewBackendClient().
			WithBaseURL(cfg.Backend.URL).
			WithTimeout(cfg.BackendTimeout())).
		WithFallback(dispatch.NewFallbackClient().
			WithBaseURL(cfg.Fallback.URL).
			WithTimeout(cfg.FallbackTimeout())).
		WithGate(gate).
		WithLogger(logger)

	rt := &cli.Runtime{
		Config:     cfg,
		Dispatcher: dispatcher,
		Gate:       gate,
		AuthStore:  authStore,
		Identity:   identity,
		Logger:     logger,
	}

	cleanup := func() {
		if authStore != nil {
			_ = authStore.Close()
		}
	}
	return rt, cleanup
}

// runTUI starts the full-screen interface.
func runTUI(rt *cli.Runtime, args cli.Args) {
	if !cli.IsStdinTTY() {
		fmt.Fprintln(os.Stderr, "nitro-tui requires an interactive terminal; try 'nitro-tui ask' for piped input")
		os.Exit(1)
	}

	cfg := rt.Config
	theme := styles.NewTheme()

	store := history.NewStore()
	sched := reveal.NewScheduler(store).
		WithInterval(cfg.RevealTick()).
		WithChunkDivisor(cfg.Reveal.ChunkDivisor)

	ctrl := session.NewController(store, sched, rt.Gate).
		WithDefaults(args.EffectiveModel(cfg), args.EffectiveLanguage(cfg)).
		WithLogger(rt.Logger)
	ctrl.SetIdentity(rt.Identity.Email)
	if rt.AuthStore != nil && !rt.Identity.IsGuest() {
		ctrl.OnMessageCount(func(count int) {
			if err := rt.AuthStore.UpdateMessageCount(count); err != nil {
				rt.Logger.Warn("failed to persist message count", "err", err)
			}
		})
	}

	m := chat.New(theme, ctrl, rt.Dispatcher, cfg.RevealTick())

	// Hot-reload endpoint and timeout changes while the TUI runs. Model,
	// language and theme edits take effect on next start.
	if path, err := config.ConfigPath(); err == nil {
		watcher, werr := config.NewWatcher(path, func(next *config.Config) {
			rt.Dispatcher.
				WithBackend(dispatch.NewBackendClient().
					WithBaseURL(next.Backend.URL).
					WithTimeout(next.BackendTimeout())).
				WithFallback(dispatch.NewFallbackClient().
					WithBaseURL(next.Fallback.URL).
					WithTimeout(next.FallbackTimeout()))
			rt.Logger.Info("configuration reloaded",
				"backend", next.Backend.URL,
				"fallback", next.Fallback.URL)
		})
		if werr == nil {
			if err := watcher.Start(); err == nil {
				defer watcher.Close()
			}
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Quota exhaustion surfaces as a transient notice in the status bar.
	rt.Gate.OnUpgradeRequired(func() {
		p.Send(chat.UpgradePromptMsg{})
	})

	start := time.Now()
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running nitro-tui: %v\n", err)
		os.Exit(1)
	}
	rt.Logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
}
