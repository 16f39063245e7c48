// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents a single message in a conversation.
// Turns are immutable once appended, with one exception: an assistant turn
// created as an optimistic placeholder (Pending) has its Content filled in
// later, first by the dispatcher's outcome and then incrementally by the
// reveal scheduler until the reveal completes.
type Turn struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Pending marks an optimistic assistant placeholder whose final content
	// has not arrived yet. Cleared when the reveal completes.
	Pending bool `json:"-"`
}

// NewTurn creates a new turn with a generated ID.
func NewTurn(role Role, content string) *Turn {
	return &Turn{
		ID:        generateTurnID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserTurn creates a new user turn.
func NewUserTurn(content string) *Turn {
	return NewTurn(RoleUser, content)
}

// NewAssistantTurn creates a new assistant turn.
func NewAssistantTurn(content string) *Turn {
	return NewTurn(RoleAssistant, content)
}

// NewPendingTurn creates an empty assistant placeholder turn.
// The session controller appends one of these optimistically before the
// network call returns, so the UI has a fixed slot to render a pending
// indicator against.
func NewPendingTurn() *Turn {
	t := NewTurn(RoleAssistant, "")
	t.Pending = true
	return t
}

// =============================================================================
// TURN METHODS
// =============================================================================

// IsEmpty returns true if the turn has no content.
func (t *Turn) IsEmpty() bool {
	return len(t.Content) == 0
}

// Preview returns a truncated preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t *Turn) Preview(maxLen int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxLen {
		return t.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// ID GENERATION
// =============================================================================

// generateTurnID creates a random hex identifier for a turn.
func generateTurnID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a timestamp-derived ID; uniqueness is best-effort here
		// since turn IDs are only used for display bookkeeping.
		return "turn-" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return "turn-" + hex.EncodeToString(b)
}
