// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/session"
)

// noticeDuration is how long transient status notices stay visible.
const noticeDuration = 4 * time.Second

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OutcomeMsg:
		m.ctrl.ApplyOutcome(msg.Outcome)
		m.refreshViewport()
		m.viewport.GotoBottom()
		if m.ctrl.CurrentPhase() == session.PhaseRevealing {
			return m, RevealTickCmd(m.tickInterval)
		}
		return m, nil

	case RevealTickMsg:
		idle := m.ctrl.TickReveal()
		m.refreshViewport()
		m.viewport.GotoBottom()
		if !idle {
			return m, RevealTickCmd(m.tickInterval)
		}
		return m, nil

	case UpgradePromptMsg:
		m.notice = "Upgrade required to keep chatting"
		return m, ClearNoticeCmd(noticeDuration)

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Everything else feeds the focused components.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker != pickerNone {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	// ctrl+m would collide with enter (both CR), so model picker sits on ctrl+o.
	case "ctrl+o":
		m.picker = pickerModel
		m.pickerIndex = indexOf(model.ModelIDs(), m.ctrl.Model())
		return m, nil

	case "ctrl+l":
		m.picker = pickerLanguage
		m.pickerIndex = indexOf(m.pickerItems(), string(m.ctrl.Language()))
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.pickerItems()

	switch msg.String() {
	case "esc", "ctrl+c":
		m.picker = pickerNone
		return m, nil

	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil

	case "down", "j":
		if m.pickerIndex < len(items)-1 {
			m.pickerIndex++
		}
		return m, nil

	case "enter":
		if m.pickerIndex >= 0 && m.pickerIndex < len(items) {
			m.applyPick(items[m.pickerIndex])
		}
		m.picker = pickerNone
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	return m, nil
}

// applyPick commits the selected picker entry. Switching models never
// cancels work in flight; an active reveal simply finishes out of sight.
func (m *Model) applyPick(item string) {
	switch m.picker {
	case pickerModel:
		if m.ctrl.SwitchModel(item) {
			m.notice = "Switched to " + item
		}
	case pickerLanguage:
		if lang, ok := model.ParseLanguage(item); ok {
			m.ctrl.SwitchLanguage(lang)
			m.notice = "Language: " + string(lang)
		}
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

// submit hands the input to the controller. Slash commands are handled
// locally; everything else becomes a send cycle. A busy session silently
// ignores the submit, matching the one-in-flight rule.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmd, handled := m.handleSlashCommand(text); handled {
		m.input.SetValue("")
		m.refreshViewport()
		return m, cmd
	}

	ticket, ok := m.ctrl.BeginSend(text)
	if !ok {
		return m, nil
	}

	m.input.SetValue("")
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(DispatchCmd(m.dispatcher, ticket), m.spinner.Tick)
}

// handleSlashCommand processes local commands. Returns true if the input
// was a command, whether or not it succeeded.
func (m *Model) handleSlashCommand(text string) (tea.Cmd, bool) {
	if !strings.HasPrefix(text, "/") {
		return nil, false
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/exit":
		return tea.Quit, true

	case "/model":
		if len(fields) < 2 {
			m.notice = "usage: /model <name>"
			return ClearNoticeCmd(noticeDuration), true
		}
		if m.ctrl.SwitchModel(fields[1]) {
			m.notice = "Switched to " + fields[1]
		} else {
			m.notice = "unknown model: " + fields[1]
		}
		return ClearNoticeCmd(noticeDuration), true

	case "/language", "/lang":
		if len(fields) < 2 {
			m.notice = "usage: /language <en|fa|ar>"
			return ClearNoticeCmd(noticeDuration), true
		}
		if lang, ok := model.ParseLanguage(fields[1]); ok {
			m.ctrl.SwitchLanguage(lang)
			m.notice = "Language: " + string(lang)
		} else {
			m.notice = "unknown language: " + fields[1]
		}
		return ClearNoticeCmd(noticeDuration), true
	}

	m.notice = "unknown command: " + fields[0]
	return ClearNoticeCmd(noticeDuration), true
}

func indexOf(items []string, target string) int {
	for i, it := range items {
		if it == target {
			return i
		}
	}
	return 0
}
