// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history owns the per-model conversation histories.
package history

import (
	"sync"

	"github.com/jeranaias/nitro-tui/internal/model"
)

// =============================================================================
// STORE TYPE
// =============================================================================

// Store maps model identifiers to their conversations. It is the only owner
// of conversation data; the session controller and the reveal scheduler it
// drives are the only writers. All mutations are serialized by a mutex so the
// store stays consistent when reveal ticks and UI reads interleave across
// goroutines.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*model.Conversation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*model.Conversation),
	}
}

// =============================================================================
// MUTATION
// =============================================================================

// Activate ensures a conversation exists for the model, seeding a brand-new
// one with exactly one synthetic assistant banner turn. A conversation is
// never empty after first activation. Re-activating an existing model is a
// no-op.
func (s *Store) Activate(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activateLocked(modelID)
}

func (s *Store) activateLocked(modelID string) *model.Conversation {
	conv, ok := s.conversations[modelID]
	if !ok {
		conv = model.NewConversation(modelID)
		conv.Append(model.NewAssistantTurn(model.SeedBanner(modelID)))
		s.conversations[modelID] = conv
	}
	return conv
}

// Append adds a turn to the end of the model's conversation, activating
// (and seeding) the conversation if it does not exist yet. Returns the index
// of the appended turn so callers can address it later without relying on
// last-element position.
func (s *Store) Append(modelID string, t *model.Turn) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activateLocked(modelID).Append(t)
}

// ReplaceLast overwrites the content of the final turn of the model's
// conversation. Silent no-op when the conversation is missing or empty.
func (s *Store) ReplaceLast(modelID string, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[modelID]
	if !ok {
		return
	}
	conv.ReplaceLast(content)
}

// SetContent overwrites the content of the turn at index in the model's
// conversation. Silent no-op when the conversation is missing or the index
// is out of range.
func (s *Store) SetContent(modelID string, index int, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[modelID]
	if !ok {
		return
	}
	conv.SetContent(index, content)
}

// SetPending flips the pending flag on the turn at index. Used when the
// dispatcher's outcome arrives and the placeholder stops being provisional.
func (s *Store) SetPending(modelID string, index int, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[modelID]
	if !ok {
		return
	}
	if index < 0 || index >= conv.Len() {
		return
	}
	conv.Turns[index].Pending = pending
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Get returns a snapshot of the model's turns, or an empty slice for an
// unseeded model. Reads never trigger seeding.
func (s *Store) Get(modelID string) []*model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[modelID]
	if !ok {
		return nil
	}
	return conv.Snapshot()
}

// Len returns the turn count for the model, zero for an unseeded model.
func (s *Store) Len(modelID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[modelID]
	if !ok {
		return 0
	}
	return conv.Len()
}

// Models returns the identifiers of all activated conversations.
func (s *Store) Models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	return ids
}
