// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/nitro-tui/internal/model"
)

// =============================================================================
// DISPATCHER
// =============================================================================

// QuotaGate is consulted before any request leaves the machine. A nil gate
// admits everything.
type QuotaGate interface {
	// Allow reports whether another message may be sent right now.
	Allow() bool
}

// Dispatcher resolves one user turn into exactly one Outcome: primary
// backend first, direct fallback on soft or hard backend failure, localized
// apology when both fail. It performs no history mutation; that is the
// session controller's job.
//
// The With* setters may be called while sends are in flight (the config
// watcher swaps clients on reload), so the client fields are mutex-guarded
// and Send works against a snapshot taken at entry.
type Dispatcher struct {
	mu       sync.RWMutex
	backend  *BackendClient
	fallback *FallbackClient
	gate     QuotaGate
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher with default clients.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		backend:  NewBackendClient(),
		fallback: NewFallbackClient(),
		logger:   log.Default(),
	}
}

// WithBackend overrides the primary client. Safe to call concurrently with
// Send; in-flight sends finish against the client they started with.
func (d *Dispatcher) WithBackend(c *BackendClient) *Dispatcher {
	if c != nil {
		d.mu.Lock()
		d.backend = c
		d.mu.Unlock()
	}
	return d
}

// WithFallback overrides the fallback client. Safe to call concurrently
// with Send.
func (d *Dispatcher) WithFallback(c *FallbackClient) *Dispatcher {
	if c != nil {
		d.mu.Lock()
		d.fallback = c
		d.mu.Unlock()
	}
	return d
}

// WithGate attaches a quota gate.
func (d *Dispatcher) WithGate(g QuotaGate) *Dispatcher {
	d.mu.Lock()
	d.gate = g
	d.mu.Unlock()
	return d
}

// WithLogger overrides the logger.
func (d *Dispatcher) WithLogger(l *log.Logger) *Dispatcher {
	if l != nil {
		d.mu.Lock()
		d.logger = l
		d.mu.Unlock()
	}
	return d
}

// Send delivers one user turn. The returned Outcome is always terminal for
// the send cycle: Backend, DirectFetch, DirectFetchFail, AuthRequired, or
// QuotaExceeded. Soft and hard backend failures are consumed internally by
// routing to the fallback path.
func (d *Dispatcher) Send(ctx context.Context, modelID string, lang model.Language, userText, email string) Outcome {
	d.mu.RLock()
	backend, fallback := d.backend, d.fallback
	gate, logger := d.gate, d.logger
	d.mu.RUnlock()

	if gate != nil && !gate.Allow() {
		logger.Debug("send blocked by quota gate", "model", modelID)
		return Outcome{Kind: KindQuotaExceeded, Reason: "local quota exhausted"}
	}

	primary := backend.Chat(ctx, userText, email, modelID, lang)
	logger.Debug("primary attempt", "model", modelID, "outcome", primary.Kind.String(), "reason", primary.Reason)

	if !primary.NeedsFallback() {
		return primary
	}

	direct := fallback.Generate(ctx, lang, userText)
	logger.Debug("fallback attempt", "model", modelID, "outcome", direct.Kind.String(), "reason", direct.Reason)
	return direct
}
