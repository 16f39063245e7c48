// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal incrementally discloses a fully-received assistant turn,
// simulating live generation.
package reveal

import (
	"strings"
	"testing"

	"github.com/jeranaias/nitro-tui/internal/history"
	"github.com/jeranaias/nitro-tui/internal/model"
)

// newTarget seeds a store with a user turn plus a pending placeholder and
// returns the store and the placeholder's index.
func newTarget(t *testing.T, modelID string) (*history.Store, int) {
	t.Helper()
	s := history.NewStore()
	s.Append(modelID, model.NewUserTurn("question"))
	return s, s.Append(modelID, model.NewPendingTurn())
}

// drive runs ticks to completion, returning the content observed after each
// tick. Bounded so a non-terminating scheduler fails the test instead of
// hanging it.
func drive(t *testing.T, sched *Scheduler, store *history.Store, modelID string, index int) []string {
	t.Helper()
	var seen []string
	for i := 0; i < 1000; i++ {
		done := sched.Tick()
		seen = append(seen, store.Get(modelID)[index].Content)
		if done {
			return seen
		}
	}
	t.Fatal("reveal did not terminate within 1000 ticks")
	return nil
}

// =============================================================================
// TERMINATION AND MONOTONICITY
// =============================================================================

func TestScheduler_RevealsExactText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "hi"},
		{"exactly one step", strings.Repeat("a", 3)},
		{"longer than one step", strings.Repeat("word ", 40)},
		{"multiple of divisor length", strings.Repeat("x", 100)},
		{"unicode", strings.Repeat("سلام دنیا ", 12)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, idx := newTarget(t, "gpt-5")
			sched := NewScheduler(store)

			sched.Start("gpt-5", idx, tc.text)
			seen := drive(t, sched, store, "gpt-5", idx)

			final := seen[len(seen)-1]
			if final != tc.text {
				t.Errorf("final content = %q, want exact full text", final)
			}

			// Every intermediate value is a strictly growing prefix.
			prev := ""
			for i, s := range seen {
				if !strings.HasPrefix(tc.text, s) {
					t.Errorf("tick %d produced %q, not a prefix of the full text", i, s)
				}
				if len([]rune(s)) < len([]rune(prev)) {
					t.Errorf("tick %d shrank content from %q to %q", i, prev, s)
				}
				prev = s
			}

			if sched.Active() {
				t.Error("scheduler still active after completion")
			}
		})
	}
}

func TestScheduler_EmptyTextCompletesImmediately(t *testing.T) {
	store, idx := newTarget(t, "gpt-5")
	sched := NewScheduler(store)

	sched.Start("gpt-5", idx, "")

	if sched.Active() {
		t.Error("empty reveal should not leave the scheduler active")
	}
	if got := store.Get("gpt-5")[idx].Content; got != "" {
		t.Errorf("content = %q, want empty", got)
	}
	if store.Get("gpt-5")[idx].Pending {
		t.Error("pending flag should be cleared")
	}
}

func TestScheduler_StepSize(t *testing.T) {
	// 120 runes with divisor 50: ceil(120/50)+1 = 4 runes per tick.
	text := strings.Repeat("x", 120)
	store, idx := newTarget(t, "gpt-5")
	sched := NewScheduler(store)

	sched.Start("gpt-5", idx, text)
	sched.Tick()

	if got := len(store.Get("gpt-5")[idx].Content); got != 4 {
		t.Errorf("content length after one tick = %d, want 4", got)
	}
}

func TestScheduler_ClearsPendingOnCompletion(t *testing.T) {
	store, idx := newTarget(t, "gpt-5")
	sched := NewScheduler(store)

	sched.Start("gpt-5", idx, "done")
	drive(t, sched, store, "gpt-5", idx)

	if store.Get("gpt-5")[idx].Pending {
		t.Error("pending flag should be cleared after reveal completes")
	}
}

// =============================================================================
// EXCLUSIVITY
// =============================================================================

func TestScheduler_ConcurrentStartPanics(t *testing.T) {
	store, idx := newTarget(t, "gpt-5")
	sched := NewScheduler(store)
	sched.Start("gpt-5", idx, "a long enough answer to span several ticks of the reveal")

	defer func() {
		if recover() == nil {
			t.Error("second Start should panic while a reveal is active")
		}
	}()
	sched.Start("llama", 0, "other")
}

func TestScheduler_TickWhenIdleIsDone(t *testing.T) {
	store := history.NewStore()
	sched := NewScheduler(store)

	if !sched.Tick() {
		t.Error("Tick with no active reveal should report done")
	}
}

// =============================================================================
// MODEL SWITCH BEHAVIOR
// =============================================================================

func TestScheduler_FinishesIntoOriginalConversation(t *testing.T) {
	// The reveal targets gpt-5; the user "switches" to llama mid-reveal.
	// Nothing cancels: ticks keep updating the gpt-5 conversation.
	store, idx := newTarget(t, "gpt-5")
	store.Activate("llama")
	sched := NewScheduler(store)

	text := strings.Repeat("steady ", 30)
	sched.Start("gpt-5", idx, text)
	sched.Tick()

	if sched.ActiveModel() != "gpt-5" {
		t.Errorf("ActiveModel = %q, want gpt-5", sched.ActiveModel())
	}

	llamaBefore := store.Len("llama")
	drive(t, sched, store, "gpt-5", idx)

	if got := store.Get("gpt-5")[idx].Content; got != text {
		t.Errorf("original conversation content = %q, want full text", got)
	}
	if store.Len("llama") != llamaBefore {
		t.Error("reveal must not touch the other model's conversation")
	}
}

func TestScheduler_ConfigurableDivisor(t *testing.T) {
	text := strings.Repeat("x", 100)
	store, idx := newTarget(t, "gpt-5")
	sched := NewScheduler(store).WithChunkDivisor(10)

	sched.Start("gpt-5", idx, text)
	sched.Tick()

	// ceil(100/10)+1 = 11 runes per tick.
	if got := len(store.Get("gpt-5")[idx].Content); got != 11 {
		t.Errorf("content length after one tick = %d, want 11", got)
	}
}
