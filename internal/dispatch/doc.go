// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch implements the delivery pipeline: primary backend
// calls, fallback routing, and outcome classification.
//
// A send travels one fixed path. The BackendClient POSTs to the chat
// endpoint; its HTTP status and body are classified into an Outcome.
// Recoverable failures (transport errors, non-2xx statuses, soft-failure
// marker text inside an otherwise well-formed reply) route to the
// FallbackClient, which fetches a completion from a public GET endpoint.
// When that also fails, the outcome carries a localized apology. Two
// failures never fall back: HTTP 401 (authentication required) and
// HTTP 403 with a payment marker (quota exhausted) are account states a
// retry elsewhere cannot fix.
//
// # Key Types
//
//   - Dispatcher: orchestrates primary, fallback, and the quota gate
//   - BackendClient: primary JSON API client
//   - FallbackClient: public text-generation fallback
//   - Outcome: terminal result of a send, classified by Kind
//
// Send never returns a Go error: every failure mode is an Outcome the
// session layer renders into the conversation.
package dispatch
