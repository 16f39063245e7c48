// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal incrementally discloses a fully-received assistant turn,
// simulating live generation.
package reveal

import (
	"time"

	"github.com/jeranaias/nitro-tui/internal/history"
)

// Tuning constants for the reveal effect.
const (
	// DefaultTickInterval is the reference tick period.
	DefaultTickInterval = 30 * time.Millisecond

	// DefaultChunkDivisor sizes the per-tick step: ceil(len/divisor)+1
	// runes, so long answers reveal in roughly the same number of ticks
	// as short ones.
	DefaultChunkDivisor = 50
)

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler owns at most one in-progress reveal. It has no timer of its own:
// the caller drives it by calling Tick on whatever cadence it likes (the TUI
// uses a bubbletea tick command, tests call it synchronously). Each Tick
// grows the target turn's content by a fixed rune step; the final tick
// writes the exact full text, so termination content is always exact
// regardless of step size.
type Scheduler struct {
	store    *history.Store
	divisor  int
	interval time.Duration

	active *revealState
}

// revealState tracks one in-progress reveal. The target turn is addressed
// by conversation index, not by last-element position.
type revealState struct {
	model string
	index int
	full  []rune
	pos   int
	step  int
}

// NewScheduler creates a scheduler writing through the given store.
func NewScheduler(store *history.Store) *Scheduler {
	return &Scheduler{
		store:    store,
		divisor:  DefaultChunkDivisor,
		interval: DefaultTickInterval,
	}
}

// WithChunkDivisor overrides the step divisor.
func (s *Scheduler) WithChunkDivisor(n int) *Scheduler {
	if n > 0 {
		s.divisor = n
	}
	return s
}

// WithInterval overrides the tick period the caller should use.
func (s *Scheduler) WithInterval(d time.Duration) *Scheduler {
	if d > 0 {
		s.interval = d
	}
	return s
}

// Interval returns the tick period the caller should schedule Tick on.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// =============================================================================
// REVEAL LIFECYCLE
// =============================================================================

// Start begins revealing fullText into the turn at index of the model's
// conversation. Exactly one reveal may run per session; starting a second
// while one is active is a programming error and panics; the session
// controller's single in-flight invariant makes this unreachable in correct
// code. Empty text completes immediately and leaves the scheduler idle.
func (s *Scheduler) Start(modelID string, index int, fullText string) {
	if s.active != nil {
		panic("reveal: Start called while a reveal is in progress (model " + s.active.model + ")")
	}

	runes := []rune(fullText)
	if len(runes) == 0 {
		s.store.SetContent(modelID, index, "")
		s.store.SetPending(modelID, index, false)
		return
	}

	s.active = &revealState{
		model: modelID,
		index: index,
		full:  runes,
		// ceil(len/divisor) + 1 runes per tick
		step: (len(runes)+s.divisor-1)/s.divisor + 1,
	}
}

// Tick advances the active reveal by one step. Returns true when the reveal
// is complete (or when no reveal is active). The revealed prefix grows
// strictly monotonically; the completing tick writes the exact full text
// and clears the pending flag on the target turn.
func (s *Scheduler) Tick() bool {
	if s.active == nil {
		return true
	}

	st := s.active
	st.pos += st.step
	if st.pos >= len(st.full) {
		s.store.SetContent(st.model, st.index, string(st.full))
		s.store.SetPending(st.model, st.index, false)
		s.active = nil
		return true
	}

	s.store.SetContent(st.model, st.index, string(st.full[:st.pos]))
	return false
}

// Active reports whether a reveal is in progress.
func (s *Scheduler) Active() bool {
	return s.active != nil
}

// ActiveModel returns the model being revealed into, or "" when idle. A
// model switch never cancels the reveal; the UI uses this to decide whether
// the typing cursor is visible, while the data keeps flowing into the
// original conversation.
func (s *Scheduler) ActiveModel() string {
	if s.active == nil {
		return ""
	}
	return s.active.model
}
