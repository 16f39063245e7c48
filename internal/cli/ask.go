// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for nitro-tui.
//
// Command: ask [question]
//
// Examples:
//   nitro-tui ask "What is the capital of France?"
//   nitro-tui ask --model llama "Explain goroutines"
//   nitro-tui ask --language fa "سلام"
//   echo "piped question" | nitro-tui ask
//   nitro-tui ask --json "List three sorting algorithms"
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant markdown for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown, falling back to plain text on failure.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a response, rendering markdown only on a TTY so
// piped output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
		return
	}
	fmt.Print(response)
}

// =============================================================================
// STYLES
// =============================================================================

var (
	askErrorStyle = lipgloss.NewStyle().Foreground(styles.Rose)
	askInfoStyle  = lipgloss.NewStyle().Foreground(styles.Cyan)
	askWarnStyle  = lipgloss.NewStyle().Foreground(styles.Amber)
)

// =============================================================================
// JSON OUTPUT
// =============================================================================

// askJSON is the machine-readable envelope for --json mode.
type askJSON struct {
	Command  string `json:"command"`
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Source   string `json:"source,omitempty"`
	Error    string `json:"error,omitempty"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

func (r askJSON) Print() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk sends one question through the delivery pipeline and prints
// the outcome. The pipeline never surfaces transport errors directly;
// total failure arrives as a localized apology, which still prints.
func HandleAsk(rt *Runtime, args Args) error {
	question := strings.TrimSpace(args.Query)

	// Piped stdin works as the question when no argument was given.
	if question == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err == nil {
				question = strings.TrimSpace(string(data))
			}
		}
	}

	if question == "" {
		err := fmt.Errorf("no question provided. Usage: nitro-tui ask \"your question\"")
		if args.JSON {
			_ = askJSON{Command: "ask", Success: false, Error: err.Error()}.Print()
		}
		return err
	}

	modelID := args.EffectiveModel(rt.Config)
	lang := args.EffectiveLanguage(rt.Config)

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s %s\n\n", askInfoStyle.Render("Model:"), modelID)
	}

	outcome := rt.Dispatcher.Send(context.Background(), modelID, lang, question, rt.Identity.Email)

	if outcome.HasCount {
		rt.Gate.RecordCount(outcome.MessageCount)
		if rt.AuthStore != nil && !rt.Identity.IsGuest() {
			if err := rt.AuthStore.UpdateMessageCount(outcome.MessageCount); err != nil {
				rt.Logger.Warn("failed to persist message count", "err", err)
			}
		}
	}

	if args.JSON {
		resp := askJSON{
			Command:  "ask",
			Model:    modelID,
			Language: string(lang),
		}
		switch outcome.Kind {
		case dispatch.KindBackend, dispatch.KindDirectFetch:
			resp.Success = true
			resp.Response = outcome.Text
			resp.Source = outcome.Kind.String()
		case dispatch.KindDirectFetchFail:
			resp.Response = outcome.Text
			resp.Error = outcome.Reason
		case dispatch.KindAuthRequired:
			resp.Error = "authentication required"
		case dispatch.KindQuotaExceeded:
			resp.Error = "quota exceeded"
		default:
			resp.Error = outcome.Reason
		}
		return resp.Print()
	}

	switch outcome.Kind {
	case dispatch.KindBackend, dispatch.KindDirectFetch:
		displayResponse(outcome.Text)
		fmt.Println()
		return nil

	case dispatch.KindDirectFetchFail:
		// The apology is the answer of last resort.
		fmt.Println(askErrorStyle.Render(outcome.Text))
		return nil

	case dispatch.KindAuthRequired:
		fmt.Println(askWarnStyle.Render(dispatch.AuthPrompt(lang)))
		return fmt.Errorf("authentication required")

	case dispatch.KindQuotaExceeded:
		fmt.Println(askWarnStyle.Render(dispatch.UpgradeNotice(lang)))
		return fmt.Errorf("quota exceeded")

	default:
		return fmt.Errorf("unexpected outcome: %s (%s)", outcome.Kind, outcome.Reason)
	}
}
