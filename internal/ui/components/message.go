// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// typingIndicator is shown inside a pending placeholder while the backend
// is being contacted.
const typingIndicator = "..."

// MessageBubble renders a single conversation turn.
type MessageBubble struct {
	Turn           *model.Turn
	Theme          *styles.Theme
	Width          int
	ShowTimestamps bool
}

// NewMessageBubble creates a renderer for one turn.
func NewMessageBubble(turn *model.Turn, theme *styles.Theme, width int) MessageBubble {
	return MessageBubble{
		Turn:  turn,
		Theme: theme,
		Width: width,
	}
}

// Render renders the turn as a styled bubble. Right-to-left content is
// aligned to the right edge so Persian and Arabic read naturally.
func (b MessageBubble) Render() string {
	if b.Turn == nil {
		return ""
	}

	maxWidth := b.Width - 8
	if maxWidth < 24 {
		maxWidth = 24
	}

	content := b.Turn.Content
	if b.Turn.Pending && content == "" {
		content = b.Theme.PendingText.Render(typingIndicator)
	} else if b.Turn.Role == model.RoleAssistant {
		content = ParseCodeBlocks(content, maxWidth)
	}

	var bubble lipgloss.Style
	switch b.Turn.Role {
	case model.RoleUser:
		bubble = b.Theme.UserBubble
	case model.RoleSystem:
		bubble = b.Theme.SystemBubble
	default:
		bubble = b.Theme.AssistantBubble
	}
	bubble = bubble.MaxWidth(maxWidth)

	if model.IsRTLText(b.Turn.Content) {
		bubble = bubble.Align(lipgloss.Right)
	}

	rendered := bubble.Render(content)

	label := b.Turn.Role.DisplayName()
	if b.ShowTimestamps && !b.Turn.Timestamp.IsZero() {
		label = fmt.Sprintf("%s %s", label, b.Turn.Timestamp.Format("15:04"))
	}
	header := b.Theme.Timestamp.Render(label)

	// User turns hug the right edge; everything else stays left.
	if b.Turn.Role == model.RoleUser && b.Width > 0 {
		return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, header+"\n"+rendered)
	}
	return header + "\n" + rendered
}
