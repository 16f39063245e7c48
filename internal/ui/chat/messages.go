// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface. Messages fall into three groups:
//   - Delivery: outcomes arriving from the dispatcher
//   - Reveal: timer ticks driving the progressive text reveal
//   - UI state: resize and transient notices
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/session"
)

// =============================================================================
// DELIVERY MESSAGES
// =============================================================================

// OutcomeMsg delivers the terminal outcome of a dispatched prompt. The
// ticket identifies which send this outcome belongs to.
type OutcomeMsg struct {
	Ticket  session.Ticket
	Outcome dispatch.Outcome
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg drives one step of the progressive reveal.
type RevealTickMsg struct{}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// UpgradePromptMsg is emitted when the quota gate signals that the user
// should be offered an upgrade.
type UpgradePromptMsg struct{}

// ClearNoticeMsg removes a transient status notice.
type ClearNoticeMsg struct{}
