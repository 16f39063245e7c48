// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the send pipeline: history, dispatch, and
// reveal, one cycle at a time.
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/history"
	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/quota"
	"github.com/jeranaias/nitro-tui/internal/reveal"
)

func newTestController(t *testing.T) (*Controller, *history.Store, *quota.Gate) {
	t.Helper()
	store := history.NewStore()
	gate := quota.NewGate(100)
	c := NewController(store, reveal.NewScheduler(store), gate)
	return c, store, gate
}

// finishCycle drives reveal ticks until the controller is Idle again.
func finishCycle(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if c.TickReveal() {
			return
		}
	}
	t.Fatal("cycle did not return to Idle within 1000 ticks")
}

// =============================================================================
// SEED AND SEND CYCLE
// =============================================================================

func TestController_SeedsDefaultModelOnCreation(t *testing.T) {
	c, store, _ := newTestController(t)

	turns := store.Get(c.Model())
	require.Len(t, turns, 1)
	assert.Equal(t, model.RoleAssistant, turns[0].Role)
}

func TestController_HappyPathSend(t *testing.T) {
	c, store, _ := newTestController(t)

	ticket, ok := c.BeginSend("hello")
	require.True(t, ok)
	assert.Equal(t, "gpt-5", ticket.Model)
	assert.Equal(t, model.LanguageEnglish, ticket.Language)
	assert.Equal(t, "hello", ticket.Text)
	assert.Equal(t, PhaseDispatching, c.CurrentPhase())

	// Optimistic append: user turn plus pending placeholder, before any
	// network activity.
	turns := store.Get("gpt-5")
	require.Len(t, turns, 3) // seed + user + placeholder
	assert.Equal(t, model.RoleUser, turns[1].Role)
	assert.True(t, turns[2].Pending)
	assert.Empty(t, turns[2].Content)

	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "hi there"})
	assert.Equal(t, PhaseRevealing, c.CurrentPhase())

	finishCycle(t, c)

	turns = store.Get("gpt-5")
	last := turns[len(turns)-1]
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, "hi there", last.Content)
	assert.False(t, last.Pending)
	assert.Equal(t, PhaseIdle, c.CurrentPhase())
}

func TestController_BlankInputRejected(t *testing.T) {
	c, store, _ := newTestController(t)
	before := store.Len("gpt-5")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := c.BeginSend(text); ok {
			t.Errorf("BeginSend(%q) accepted, want rejection", text)
		}
	}

	assert.Equal(t, before, store.Len("gpt-5"), "rejected sends must not touch history")
	assert.Equal(t, PhaseIdle, c.CurrentPhase())
}

func TestController_SecondSendWhileBusyIsNoop(t *testing.T) {
	c, store, _ := newTestController(t)

	_, ok := c.BeginSend("first")
	require.True(t, ok)
	lenAfterFirst := store.Len("gpt-5")

	// Busy dispatching.
	if _, ok := c.BeginSend("second"); ok {
		t.Error("send during Dispatching should be rejected")
	}
	assert.Equal(t, lenAfterFirst, store.Len("gpt-5"))

	// Busy revealing.
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "a fairly long answer so the reveal spans multiple ticks"})
	require.Equal(t, PhaseRevealing, c.CurrentPhase())
	if _, ok := c.BeginSend("third"); ok {
		t.Error("send during Revealing should be rejected")
	}

	finishCycle(t, c)
	if _, ok := c.BeginSend("fourth"); !ok {
		t.Error("send after Idle should be accepted again")
	}
}

func TestController_HistoryLengthPerCompletedCycle(t *testing.T) {
	c, store, _ := newTestController(t)

	const sends = 3
	for i := 0; i < sends; i++ {
		_, ok := c.BeginSend("msg")
		require.True(t, ok)
		c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "reply"})
		finishCycle(t, c)
	}

	// len == 2*sends + seed
	assert.Equal(t, 2*sends+1, store.Len("gpt-5"))
}

// =============================================================================
// OUTCOME HANDLING
// =============================================================================

func TestController_MessageCountForwardedToGate(t *testing.T) {
	c, _, gate := newTestController(t)

	var observed []int
	c.OnMessageCount(func(n int) { observed = append(observed, n) })

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "hi", MessageCount: 9, HasCount: true})
	finishCycle(t, c)

	assert.Equal(t, 9, gate.Count())
	assert.Equal(t, []int{9}, observed)
}

func TestController_DirectFetchFailRevealsApology(t *testing.T) {
	c, store, _ := newTestController(t)
	c.SwitchLanguage(model.LanguagePersian)

	_, ok := c.BeginSend("سلام")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindDirectFetchFail, Text: dispatch.Apology(model.LanguagePersian)})
	finishCycle(t, c)

	turns := store.Get("gpt-5")
	assert.Equal(t, dispatch.Apology(model.LanguagePersian), turns[len(turns)-1].Content)
	assert.Equal(t, PhaseIdle, c.CurrentPhase())
}

func TestController_AuthRequiredRevealsPrompt(t *testing.T) {
	c, store, _ := newTestController(t)

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindAuthRequired})
	finishCycle(t, c)

	turns := store.Get("gpt-5")
	assert.Equal(t, dispatch.AuthPrompt(model.LanguageEnglish), turns[len(turns)-1].Content)
}

func TestController_QuotaExceededFiresUpgradeOnce(t *testing.T) {
	c, store, gate := newTestController(t)

	fired := 0
	gate.OnUpgradeRequired(func() { fired++ })

	_, ok := c.BeginSend("x")
	require.True(t, ok)
	lenBefore := store.Len("gpt-5")

	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindQuotaExceeded})

	// Cycle ends in Idle with no reveal and exactly one upgrade signal.
	assert.Equal(t, PhaseIdle, c.CurrentPhase())
	assert.Equal(t, 1, fired)

	// No extra assistant turn beyond the placeholder, which now carries
	// the upgrade notice instead of dangling empty.
	turns := store.Get("gpt-5")
	assert.Equal(t, lenBefore, len(turns))
	last := turns[len(turns)-1]
	assert.Equal(t, dispatch.UpgradeNotice(model.LanguageEnglish), last.Content)
	assert.False(t, last.Pending)
}

func TestController_EmptyResponseCompletesImmediately(t *testing.T) {
	c, _, _ := newTestController(t)

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: ""})

	assert.Equal(t, PhaseIdle, c.CurrentPhase())
}

func TestController_UnexpectedOutcomeDegradesToDiagnostic(t *testing.T) {
	c, store, _ := newTestController(t)

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackendSoftFail, Reason: "backend returned 500"})

	assert.Equal(t, PhaseIdle, c.CurrentPhase())
	turns := store.Get("gpt-5")
	assert.Contains(t, turns[len(turns)-1].Content, "backend returned 500")
}

func TestController_StrayOutcomeIgnored(t *testing.T) {
	c, store, _ := newTestController(t)
	before := store.Len("gpt-5")

	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "ghost"})

	assert.Equal(t, PhaseIdle, c.CurrentPhase())
	assert.Equal(t, before, store.Len("gpt-5"))
}

// =============================================================================
// SWITCHING
// =============================================================================

func TestController_SwitchModelSeedsAndSelects(t *testing.T) {
	c, store, _ := newTestController(t)

	require.True(t, c.SwitchModel("llama"))
	assert.Equal(t, "llama", c.Model())

	turns := store.Get("llama")
	require.Len(t, turns, 1)
	assert.Equal(t, model.RoleAssistant, turns[0].Role)

	assert.False(t, c.SwitchModel("no-such-model"))
	assert.Equal(t, "llama", c.Model())
}

func TestController_SwitchMidRevealFinishesInvisibly(t *testing.T) {
	c, store, _ := newTestController(t)

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	full := "an answer long enough that the reveal takes several ticks to finish"
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: full})
	require.Equal(t, PhaseRevealing, c.CurrentPhase())
	c.TickReveal()

	// Switch away mid-reveal: the cycle keeps running, the typing cursor
	// moves off-screen.
	require.True(t, c.SwitchModel("llama"))
	snap := c.Snapshot()
	assert.Equal(t, "llama", snap.Model)
	assert.False(t, snap.Revealing, "typing cursor must follow the active model")
	assert.Equal(t, PhaseRevealing, snap.Phase, "switch must not cancel the cycle")

	finishCycle(t, c)

	turns := store.Get("gpt-5")
	assert.Equal(t, full, turns[len(turns)-1].Content, "reveal must finish into its original conversation")
}

func TestController_SnapshotRevealingTracksActiveModel(t *testing.T) {
	c, _, _ := newTestController(t)

	_, ok := c.BeginSend("hello")
	require.True(t, ok)
	c.ApplyOutcome(dispatch.Outcome{Kind: dispatch.KindBackend, Text: "a response long enough for several ticks of typing"})
	c.TickReveal()

	snap := c.Snapshot()
	assert.True(t, snap.Revealing, "active model mid-reveal should show the cursor")
	assert.Equal(t, PhaseRevealing, snap.Phase)
	assert.NotEmpty(t, snap.SessionID)
}

func TestController_LanguageSwitchAffectsSubsequentTickets(t *testing.T) {
	c, _, _ := newTestController(t)

	c.SwitchLanguage(model.LanguageArabic)
	ticket, ok := c.BeginSend("مرحبا")
	require.True(t, ok)
	assert.Equal(t, model.LanguageArabic, ticket.Language)
}
