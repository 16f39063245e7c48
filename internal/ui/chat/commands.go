// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/session"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// DispatchCmd creates a command that sends the ticket through the
// dispatcher and delivers the terminal outcome. The dispatcher never
// returns a Go error; every failure mode arrives as an outcome kind.
func DispatchCmd(d *dispatch.Dispatcher, ticket session.Ticket) tea.Cmd {
	return func() tea.Msg {
		outcome := d.Send(context.Background(), ticket.Model, ticket.Language, ticket.Text, ticket.Email)
		return OutcomeMsg{Ticket: ticket, Outcome: outcome}
	}
}

// RevealTickCmd creates a command that fires one reveal tick after the
// scheduler's interval.
func RevealTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RevealTickMsg{}
	})
}

// ClearNoticeCmd clears a transient notice after the given delay.
func ClearNoticeCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
