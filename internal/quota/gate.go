// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota tracks the per-identity message allowance and gates the
// send pipeline.
package quota

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default allowance settings.
const (
	// DefaultCeiling is the free-tier message allowance.
	DefaultCeiling = 50

	// Burst limiter defaults: the pipeline drives one request at a time,
	// so this only guards against a scripted caller hammering sends.
	defaultRatePerSecond = 1
	defaultBurst         = 5
)

// =============================================================================
// GATE
// =============================================================================

// Gate combines the server-reported message count with a permitted-message
// ceiling and a client-side burst limiter. Admins and identities with an
// unexpired subscription are unlimited: the ceiling does not apply, though
// the burst limiter still does. The gate surfaces quota state; it never
// computes billing.
type Gate struct {
	mu sync.Mutex

	ceiling int
	count   int

	admin              bool
	subscriptionExpiry time.Time

	limiter *rate.Limiter

	onUpgrade func()

	// now is swappable for tests.
	now func() time.Time
}

// NewGate creates a gate with the given ceiling. A ceiling of zero or less
// falls back to the default.
func NewGate(ceiling int) *Gate {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Gate{
		ceiling: ceiling,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultBurst),
		now:     time.Now,
	}
}

// WithLimiter overrides the burst limiter.
func (g *Gate) WithLimiter(l *rate.Limiter) *Gate {
	if l != nil {
		g.limiter = l
	}
	return g
}

// WithClock overrides the time source, used by tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	if now != nil {
		g.now = now
	}
	return g
}

// =============================================================================
// IDENTITY AND STATE
// =============================================================================

// SetIdentity updates the quota-relevant identity fields.
func (g *Gate) SetIdentity(admin bool, messageCount int, subscriptionExpiry time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.admin = admin
	g.count = messageCount
	g.subscriptionExpiry = subscriptionExpiry
}

// RecordCount stores the server-reported message count after a successful
// send.
func (g *Gate) RecordCount(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count = n
}

// Count returns the last known message count.
func (g *Gate) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Ceiling returns the permitted-message ceiling.
func (g *Gate) Ceiling() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ceiling
}

// Unlimited reports whether the identity bypasses the ceiling.
func (g *Gate) Unlimited() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlimitedLocked()
}

func (g *Gate) unlimitedLocked() bool {
	return g.admin || g.subscriptionExpiry.After(g.now())
}

// Remaining returns the messages left under the ceiling, or -1 when
// unlimited.
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unlimitedLocked() {
		return -1
	}
	if g.count >= g.ceiling {
		return 0
	}
	return g.ceiling - g.count
}

// =============================================================================
// GATING
// =============================================================================

// Allow reports whether another message may be sent right now. Consulted by
// the dispatcher before any request leaves the machine.
func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.unlimitedLocked() && g.count >= g.ceiling {
		return false
	}
	return g.limiter.Allow()
}

// =============================================================================
// UPGRADE SIGNAL
// =============================================================================

// OnUpgradeRequired registers the callback invoked when a send is rejected
// for quota reasons. The session controller invokes it at most once per
// send cycle.
func (g *Gate) OnUpgradeRequired(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onUpgrade = fn
}

// NotifyUpgradeRequired fires the registered upgrade callback, if any.
func (g *Gate) NotifyUpgradeRequired() {
	g.mu.Lock()
	fn := g.onUpgrade
	g.mu.Unlock()

	if fn != nil {
		fn()
	}
}
