// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the send pipeline: history, dispatch, and
// reveal, one cycle at a time.
package session

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jeranaias/nitro-tui/internal/dispatch"
	"github.com/jeranaias/nitro-tui/internal/history"
	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/quota"
	"github.com/jeranaias/nitro-tui/internal/reveal"
)

// =============================================================================
// PHASE TYPE
// =============================================================================

// Phase is the send-cycle state. Exactly one cycle runs at a time across the
// whole session, regardless of how many model conversations exist.
type Phase int

const (
	// PhaseIdle accepts new sends.
	PhaseIdle Phase = iota

	// PhaseDispatching has a request on the wire.
	PhaseDispatching

	// PhaseRevealing is typing a received answer into history.
	PhaseRevealing
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDispatching:
		return "dispatching"
	case PhaseRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Ticket describes one accepted send: everything the caller needs to hand
// to the dispatcher. The controller never blocks on the network itself; the
// presentation layer runs the dispatch and feeds the outcome back through
// ApplyOutcome.
type Ticket struct {
	Model    string
	Language model.Language
	Text     string
	Email    string
}

// Snapshot is the read view exposed to the presentation layer.
type Snapshot struct {
	SessionID string
	Model     string
	Language  model.Language
	Phase     Phase
	Turns     []*model.Turn

	// Revealing is true only when the in-progress reveal targets the
	// active model; a reveal that outlived a model switch keeps running
	// but shows no typing cursor.
	Revealing bool

	// Remaining is the message allowance left, -1 when unlimited.
	Remaining int
}

// Controller owns the session state machine. Created on view mount,
// discarded on unmount; conversations do not outlive it. All methods are
// mutex-serialized so the UI goroutine and dispatch command goroutines can
// call in safely.
type Controller struct {
	mu sync.Mutex

	id    string
	store *history.Store
	sched *reveal.Scheduler
	gate  *quota.Gate

	activeModel    string
	activeLanguage model.Language
	phase          Phase

	email string

	// The optimistic placeholder of the in-flight cycle, addressed by
	// conversation index rather than last-element position.
	pendingModel string
	pendingIndex int

	// onCount observes server-reported quota counters, used to persist
	// them outside the session.
	onCount func(int)

	logger *log.Logger
}

// NewController creates a session with the default model and language
// activated (and therefore seeded).
func NewController(store *history.Store, sched *reveal.Scheduler, gate *quota.Gate) *Controller {
	c := &Controller{
		id:             uuid.NewString(),
		store:          store,
		sched:          sched,
		gate:           gate,
		activeModel:    model.DefaultModel,
		activeLanguage: model.DefaultLanguage,
		phase:          PhaseIdle,
		logger:         log.Default(),
	}
	c.store.Activate(c.activeModel)
	return c
}

// WithLogger overrides the logger.
func (c *Controller) WithLogger(l *log.Logger) *Controller {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithDefaults overrides the starting model and language, activating the
// model. Unknown values are ignored.
func (c *Controller) WithDefaults(modelID string, lang model.Language) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.IsKnownModel(modelID) {
		c.activeModel = modelID
		c.store.Activate(modelID)
	}
	if lang != "" {
		c.activeLanguage = lang
	}
	return c
}

// SetIdentity records the email sent with backend calls.
func (c *Controller) SetIdentity(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
}

// OnMessageCount registers an observer for server-reported quota counters.
func (c *Controller) OnMessageCount(fn func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCount = fn
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// =============================================================================
// SEND CYCLE
// =============================================================================

// BeginSend starts a send cycle. Blank input or a cycle already in progress
// is rejected as a no-op: no queuing, no coalescing, the caller waits for
// Idle. On acceptance the user turn and an empty pending assistant
// placeholder are appended immediately, so the UI has a fixed slot for its
// pending indicator before the network answers.
func (c *Controller) BeginSend(text string) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return Ticket{}, false
	}
	if c.phase != PhaseIdle {
		c.logger.Debug("send rejected", "phase", c.phase.String())
		return Ticket{}, false
	}

	c.store.Append(c.activeModel, model.NewUserTurn(text))
	c.pendingIndex = c.store.Append(c.activeModel, model.NewPendingTurn())
	c.pendingModel = c.activeModel
	c.phase = PhaseDispatching

	c.logger.Debug("send accepted", "model", c.activeModel, "session", c.id)
	return Ticket{
		Model:    c.activeModel,
		Language: c.activeLanguage,
		Text:     text,
		Email:    c.email,
	}, true
}

// ApplyOutcome consumes the dispatch result for the in-flight cycle. Every
// outcome kind terminates the cycle one way or another; the session can
// never get stuck in Dispatching.
func (c *Controller) ApplyOutcome(out dispatch.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseDispatching {
		c.logger.Warn("outcome arrived outside a dispatch cycle", "phase", c.phase.String(), "outcome", out.Kind.String())
		return
	}

	if out.HasCount {
		if c.gate != nil {
			c.gate.RecordCount(out.MessageCount)
		}
		if c.onCount != nil {
			c.onCount(out.MessageCount)
		}
	}

	switch out.Kind {
	case dispatch.KindBackend, dispatch.KindDirectFetch:
		c.startRevealLocked(out.Text)

	case dispatch.KindDirectFetchFail:
		// The apology travels through the same reveal as a real answer:
		// the conversation stream is the single channel for all outcomes.
		c.startRevealLocked(out.Text)

	case dispatch.KindAuthRequired:
		c.startRevealLocked(dispatch.AuthPrompt(c.activeLanguage))

	case dispatch.KindQuotaExceeded:
		// Fill the placeholder without a reveal and signal the upgrade
		// flow. History cannot shrink, so the slot gets a short notice
		// instead of dangling empty.
		c.store.SetContent(c.pendingModel, c.pendingIndex, dispatch.UpgradeNotice(c.activeLanguage))
		c.store.SetPending(c.pendingModel, c.pendingIndex, false)
		if c.gate != nil {
			c.gate.NotifyUpgradeRequired()
		}
		c.phase = PhaseIdle

	default:
		// Soft/hard backend failures are consumed inside the dispatcher;
		// anything else landing here still must terminate the cycle.
		c.logger.Error("unexpected outcome kind", "outcome", out.Kind.String(), "reason", out.Reason)
		diag := out.Reason
		if diag == "" {
			diag = out.Kind.String()
		}
		c.store.SetContent(c.pendingModel, c.pendingIndex, "SYSTEM_ERROR: "+diag)
		c.store.SetPending(c.pendingModel, c.pendingIndex, false)
		c.phase = PhaseIdle
	}
}

// startRevealLocked hands the final text to the reveal scheduler against
// the recorded placeholder. Empty text completes on the spot.
func (c *Controller) startRevealLocked(text string) {
	c.sched.Start(c.pendingModel, c.pendingIndex, text)
	if c.sched.Active() {
		c.phase = PhaseRevealing
		return
	}
	c.phase = PhaseIdle
}

// TickReveal advances the in-progress reveal by one step. Returns true when
// the cycle has returned to Idle. Safe to call in any phase.
func (c *Controller) TickReveal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	done := c.sched.Tick()
	if done && c.phase == PhaseRevealing {
		c.phase = PhaseIdle
		c.logger.Debug("reveal complete", "model", c.pendingModel)
	}
	return c.phase == PhaseIdle
}

// =============================================================================
// SWITCHES AND READ VIEW
// =============================================================================

// SwitchModel changes the active model for subsequent sends and for the
// read view. Permitted in any phase; an in-flight cycle keeps running
// against its original conversation. A previously-unseen model is activated
// (seeded) immediately. Unknown identifiers are rejected.
func (c *Controller) SwitchModel(modelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !model.IsKnownModel(modelID) {
		return false
	}
	c.activeModel = modelID
	c.store.Activate(modelID)
	c.logger.Debug("model switched", "model", modelID)
	return true
}

// SwitchLanguage changes the active language for subsequent sends.
// Permitted in any phase.
func (c *Controller) SwitchLanguage(lang model.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeLanguage = lang
}

// Model returns the active model identifier.
func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeModel
}

// Language returns the active language.
func (c *Controller) Language() model.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLanguage
}

// CurrentPhase returns the current cycle phase.
func (c *Controller) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns the presentation view of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := -1
	if c.gate != nil {
		remaining = c.gate.Remaining()
	}

	return Snapshot{
		SessionID: c.id,
		Model:     c.activeModel,
		Language:  c.activeLanguage,
		Phase:     c.phase,
		Turns:     c.store.Get(c.activeModel),
		Revealing: c.sched.Active() && c.sched.ActiveModel() == c.activeModel,
		Remaining: remaining,
	}
}
