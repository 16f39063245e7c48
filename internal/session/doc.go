// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the send-cycle state machine that ties the
// history store, delivery pipeline, and reveal scheduler together.
// One cycle runs at a time per session: Idle -> Dispatching ->
// Revealing -> Idle. Model and language switches are allowed in any
// phase and never cancel work in flight.
package session
