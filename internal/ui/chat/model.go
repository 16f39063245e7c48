// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/session"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

// =============================================================================
// PICKER STATE
// =============================================================================

// pickerKind identifies which overlay picker is open, if any.
type pickerKind int

const (
	pickerNone pickerKind = iota
	pickerModel
	pickerLanguage
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. All conversation and
// send-cycle state lives in the session controller; this model owns only
// presentation concerns.
type Model struct {
	// Styling
	theme *styles.Theme

	// Session state machine and delivery pipeline
	ctrl       *session.Controller
	dispatcher *dispatch.Dispatcher

	// Reveal timer cadence
	tickInterval time.Duration

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Overlay picker
	picker      pickerKind
	pickerIndex int

	// Transient status notice
	notice string
}

// New creates a new chat model around an existing session controller.
func New(theme *styles.Theme, ctrl *session.Controller, dispatcher *dispatch.Dispatcher, tickInterval time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	if tickInterval <= 0 {
		tickInterval = 30 * time.Millisecond
	}

	return Model{
		theme:        theme,
		ctrl:         ctrl,
		dispatcher:   dispatcher,
		tickInterval: tickInterval,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Controller exposes the underlying session controller.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// busy reports whether a send cycle is in flight.
func (m Model) busy() bool {
	return m.ctrl.CurrentPhase() != session.PhaseIdle
}

// pickerItems returns the entries of the open picker.
func (m Model) pickerItems() []string {
	switch m.picker {
	case pickerModel:
		return model.ModelIDs()
	case pickerLanguage:
		items := make([]string, len(model.Languages))
		for i, l := range model.Languages {
			items[i] = string(l)
		}
		return items
	default:
		return nil
	}
}
