// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/session"
	"github.com/jeranaias/nitro-tui/internal/ui/components"
	"github.com/jeranaias/nitro-tui/internal/util"
)

// typingCursor marks the tail of text still being revealed.
const typingCursor = "▌"

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes the layout for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	// Header, input and status bar each take one row plus input border.
	contentHeight := height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.viewport.Width = width
	m.viewport.Height = contentHeight
	m.input.Width = width - 6
	m.theme.SetSize(width, height)
}

// refreshViewport re-renders the active conversation into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTurns())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	snap := m.ctrl.Snapshot()

	header := components.Header{
		Theme: m.theme,
		Width: m.width,
		Model: snap.Model,
	}.Render()

	var body string
	if m.picker != pickerNone {
		body = m.renderPicker()
	} else {
		body = m.viewport.View()
	}

	inputLine := m.renderInput()

	status := components.StatusBar{
		Theme:     m.theme,
		Width:     m.width,
		Model:     snap.Model,
		Language:  snap.Language,
		Remaining: snap.Remaining,
		Busy:      snap.Phase != session.PhaseIdle,
		Notice:    m.notice,
	}.Render()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, inputLine, status)
}

// renderInput renders the input row; the prompt shows a spinner while a
// cycle is in flight.
func (m Model) renderInput() string {
	prompt := ""
	if m.busy() {
		prompt = m.spinner.View() + " "
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

// renderTurns renders the active conversation as a stack of bubbles. The
// turn being revealed carries a typing cursor; a reveal that outlived a
// model switch draws nothing here because the snapshot hides it.
func (m Model) renderTurns() string {
	snap := m.ctrl.Snapshot()

	var sections []string
	for i, turn := range snap.Turns {
		bubble := components.MessageBubble{
			Turn:           turn,
			Theme:          m.theme,
			Width:          m.viewport.Width,
			ShowTimestamps: false,
		}

		rendered := bubble.Render()
		if snap.Revealing && i == len(snap.Turns)-1 && turn.Pending && turn.Content != "" {
			rendered += m.theme.TypingCursor.Render(typingCursor)
		}
		sections = append(sections, rendered)
	}

	return strings.Join(sections, "\n\n")
}

// renderPicker renders the model or language overlay.
func (m Model) renderPicker() string {
	items := m.pickerItems()

	title := "Select model"
	if m.picker == pickerLanguage {
		title = "Select language"
	}

	labels := make([]string, len(items))
	labelWidth := 0
	for i, item := range items {
		labels[i] = item
		if m.picker == pickerModel {
			if info, ok := model.GetModelInfo(item); ok {
				labels[i] = info.Name
			}
		}
		if w := util.StringWidth(labels[i]); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(m.theme.HeaderBrand.Render(" " + title + " "))
	b.WriteString("\n\n")

	// Pad labels to a common width so the selection highlight draws as an
	// even column.
	for i, label := range labels {
		label = util.PadRight(label, labelWidth)
		if i == m.pickerIndex {
			b.WriteString(m.theme.PickerItemSelected.Render("> " + label))
		} else {
			b.WriteString(m.theme.PickerItem.Render("  " + label))
		}
		b.WriteString("\n")
	}

	box := m.theme.PickerBox.Render(b.String())
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}
