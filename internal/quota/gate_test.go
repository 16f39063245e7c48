// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota tracks the per-identity message allowance and gates the
// send pipeline.
package quota

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// permissiveLimiter removes burst limiting from tests that only exercise
// the ceiling logic.
func permissiveLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestGate_CeilingBlocks(t *testing.T) {
	g := NewGate(3).WithLimiter(permissiveLimiter())

	g.RecordCount(2)
	if !g.Allow() {
		t.Error("count below ceiling should be allowed")
	}

	g.RecordCount(3)
	if g.Allow() {
		t.Error("count at ceiling should be blocked")
	}
	if got := g.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestGate_AdminIsUnlimited(t *testing.T) {
	g := NewGate(3).WithLimiter(permissiveLimiter())
	g.SetIdentity(true, 999, time.Time{})

	if !g.Allow() {
		t.Error("admin should be allowed past the ceiling")
	}
	if !g.Unlimited() {
		t.Error("admin should be unlimited")
	}
	if got := g.Remaining(); got != -1 {
		t.Errorf("Remaining = %d, want -1", got)
	}
}

func TestGate_SubscriptionExpiry(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(3).WithLimiter(permissiveLimiter()).WithClock(func() time.Time { return fixed })

	g.SetIdentity(false, 999, fixed.Add(24*time.Hour))
	if !g.Allow() {
		t.Error("unexpired subscription should be unlimited")
	}

	g.SetIdentity(false, 999, fixed.Add(-time.Hour))
	if g.Allow() {
		t.Error("expired subscription should fall back to the ceiling")
	}
}

func TestGate_RecordCount(t *testing.T) {
	g := NewGate(50)

	g.RecordCount(12)
	if got := g.Count(); got != 12 {
		t.Errorf("Count = %d, want 12", got)
	}
	if got := g.Remaining(); got != 38 {
		t.Errorf("Remaining = %d, want 38", got)
	}
}

func TestGate_BurstLimiter(t *testing.T) {
	// One token, no refill: the second immediate call must be rejected
	// even though the ceiling has room.
	g := NewGate(100).WithLimiter(rate.NewLimiter(rate.Limit(0), 1))

	if !g.Allow() {
		t.Fatal("first call should pass the burst limiter")
	}
	if g.Allow() {
		t.Error("second immediate call should be rejected by the burst limiter")
	}
}

func TestGate_UpgradeCallback(t *testing.T) {
	g := NewGate(1)

	fired := 0
	g.OnUpgradeRequired(func() { fired++ })
	g.NotifyUpgradeRequired()

	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}

	// No callback registered is a no-op.
	g.OnUpgradeRequired(nil)
	g.NotifyUpgradeRequired()
}

func TestGate_DefaultCeiling(t *testing.T) {
	g := NewGate(0)
	if got := g.Ceiling(); got != DefaultCeiling {
		t.Errorf("Ceiling = %d, want default %d", got, DefaultCeiling)
	}
}
