// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal interactive chat for nitro-tui.
//
// Command: chat
//
// Runs the same session pipeline as the TUI but on a line-based REPL,
// useful over SSH or in terminals where the full-screen UI misbehaves.
//
// Interactive commands:
//   /help, /h           Show available commands
//   /model [name]       Show or switch model
//   /language [name]    Show or switch response language
//   /history            Print the active conversation
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/nitro-tui/internal/config"
	"github.com/jeranaias/nitro-tui/internal/history"
	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/reveal"
	"github.com/jeranaias/nitro-tui/internal/session"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	chatPromptStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	chatWelcomeStyle = lipgloss.NewStyle().Foreground(styles.Green).Bold(true)
	chatInfoStyle    = lipgloss.NewStyle().Foreground(styles.TextSecondary)
	chatCommandStyle = lipgloss.NewStyle().Foreground(styles.GreenDeep)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatREPL wraps liner with a persistent input history file.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL() *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	return &chatREPL{line: line, historyFile: historyFile}
}

func (r *chatREPL) close() {
	if f, err := os.Create(r.historyFile); err == nil {
		_, _ = r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL. The reveal scheduler drives a
// typewriter print: each tick's newly-visible text goes straight to
// stdout, so the pacing matches the TUI.
func HandleChat(rt *Runtime, args Args) error {
	store := history.NewStore()
	sched := reveal.NewScheduler(store).
		WithInterval(rt.Config.RevealTick()).
		WithChunkDivisor(rt.Config.Reveal.ChunkDivisor)

	ctrl := session.NewController(store, sched, rt.Gate).
		WithDefaults(args.EffectiveModel(rt.Config), args.EffectiveLanguage(rt.Config)).
		WithLogger(rt.Logger)
	ctrl.SetIdentity(rt.Identity.Email)
	if rt.AuthStore != nil && !rt.Identity.IsGuest() {
		ctrl.OnMessageCount(func(count int) {
			if err := rt.AuthStore.UpdateMessageCount(count); err != nil {
				rt.Logger.Warn("failed to persist message count", "err", err)
			}
		})
	}

	repl := newChatREPL()
	defer repl.close()

	if !args.Quiet {
		fmt.Println(chatWelcomeStyle.Render("nitro chat"))
		fmt.Println(chatInfoStyle.Render(fmt.Sprintf("model %s, language %s, /help for commands", ctrl.Model(), ctrl.Language())))
		fmt.Println()
	}

	for {
		input, err := repl.line.Prompt(chatPromptStyle.Render("> "))
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runChatCommand(ctrl, input); quit {
				return nil
			}
			continue
		}

		ticket, ok := ctrl.BeginSend(input)
		if !ok {
			continue
		}

		outcome := rt.Dispatcher.Send(context.Background(), ticket.Model, ticket.Language, ticket.Text, ticket.Email)
		ctrl.ApplyOutcome(outcome)

		printRevealed(ctrl, sched.Interval())
	}
}

// printRevealed drives the reveal to completion, printing each tick's
// delta so the answer types itself out.
func printRevealed(ctrl *session.Controller, interval time.Duration) {
	printed := 0

	flush := func() {
		snap := ctrl.Snapshot()
		if len(snap.Turns) == 0 {
			return
		}
		content := []rune(snap.Turns[len(snap.Turns)-1].Content)
		if printed < len(content) {
			fmt.Print(string(content[printed:]))
			printed = len(content)
		}
	}

	flush()
	for ctrl.CurrentPhase() == session.PhaseRevealing {
		time.Sleep(interval)
		ctrl.TickReveal()
		flush()
	}
	fmt.Println()
}

// runChatCommand handles slash commands. Returns true to exit.
func runChatCommand(ctrl *session.Controller, input string) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(chatCommandStyle.Render("/model [name]") + "     show or switch model")
		fmt.Println(chatCommandStyle.Render("/language [name]") + "  show or switch language")
		fmt.Println(chatCommandStyle.Render("/history") + "          print the conversation")
		fmt.Println(chatCommandStyle.Render("/quit") + "             exit")

	case "/model":
		if len(fields) < 2 {
			fmt.Println(chatInfoStyle.Render("model: " + ctrl.Model()))
			fmt.Println(chatInfoStyle.Render("available: " + strings.Join(model.ModelIDs(), ", ")))
			break
		}
		if ctrl.SwitchModel(fields[1]) {
			fmt.Println(chatInfoStyle.Render("switched to " + fields[1]))
		} else {
			fmt.Println(chatInfoStyle.Render("unknown model: " + fields[1]))
		}

	case "/language", "/lang":
		if len(fields) < 2 {
			fmt.Println(chatInfoStyle.Render("language: " + string(ctrl.Language())))
			break
		}
		if lang, ok := model.ParseLanguage(fields[1]); ok {
			ctrl.SwitchLanguage(lang)
			fmt.Println(chatInfoStyle.Render("language: " + string(lang)))
		} else {
			fmt.Println(chatInfoStyle.Render("unknown language: " + fields[1]))
		}

	case "/history":
		snap := ctrl.Snapshot()
		for _, turn := range snap.Turns {
			fmt.Printf("%s: %s\n", chatCommandStyle.Render(turn.Role.DisplayName()), turn.Content)
		}

	default:
		fmt.Println(chatInfoStyle.Render("unknown command: " + fields[0]))
	}

	return false
}
