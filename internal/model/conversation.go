// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered turn history for one model identifier.
// Insertion order is chronological and semantically significant: render
// order equals history order. There is no deletion API; a conversation only
// grows for the lifetime of the session.
type Conversation struct {
	// Identity
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Turns
	Turns []*Turn `json:"turns"`
}

// NewConversation creates an empty conversation for a model.
func NewConversation(modelID string) *Conversation {
	return &Conversation{
		Model:     modelID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Turns:     make([]*Turn, 0),
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// Append adds a turn to the end of the conversation and returns its index.
// Callers that need to mutate the turn later (the optimistic placeholder)
// address it by this index rather than by "last element".
func (c *Conversation) Append(t *Turn) int {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = time.Now()
	return len(c.Turns) - 1
}

// ReplaceLast overwrites the content of the final turn.
// No-op on an empty conversation.
func (c *Conversation) ReplaceLast(content string) {
	if len(c.Turns) == 0 {
		return
	}
	last := c.Turns[len(c.Turns)-1]
	last.Content = content
	c.UpdatedAt = time.Now()
}

// SetContent overwrites the content of the turn at index.
// No-op when index is out of range.
func (c *Conversation) SetContent(index int, content string) {
	if index < 0 || index >= len(c.Turns) {
		return
	}
	c.Turns[index].Content = content
	c.UpdatedAt = time.Now()
}

// Last returns the most recent turn, or nil if the conversation is empty.
func (c *Conversation) Last() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return c.Turns[len(c.Turns)-1]
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.Turns)
}

// Snapshot returns a copy of the turn slice. The turns themselves are
// shared; callers treat them as read-only.
func (c *Conversation) Snapshot() []*Turn {
	out := make([]*Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}
