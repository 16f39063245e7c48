// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// =============================================================================
// FAILURE MARKERS
// =============================================================================

// Soft-failure markers. A 2xx backend response whose text contains one of
// these means the backend itself could not reach the upstream provider, not
// a genuine model answer. These strings are load-bearing for failover and
// are defined here and nowhere else.
const (
	markerConnectionFailed  = "CONNECTION_FAILED"
	markerNeuralLinkDropped = "Neural link dropped"
)

// markerPaymentRequired is the error payload value that distinguishes a
// quota rejection from other 403s.
const markerPaymentRequired = "PAYMENT_REQUIRED"

// isSoftFailureText reports whether a backend response body signals an
// upstream failure that must trigger fallback rather than being shown.
func isSoftFailureText(s string) bool {
	return strings.Contains(s, markerConnectionFailed) ||
		strings.Contains(s, markerNeuralLinkDropped)
}

// =============================================================================
// RESPONSE CLASSIFICATION
// =============================================================================

// chatResponse is the backend's success payload.
type chatResponse struct {
	Response     string `json:"response"`
	MessageCount *int   `json:"message_count,omitempty"`
}

// chatErrorResponse is the backend's failure payload.
type chatErrorResponse struct {
	Error string `json:"error"`
}

// classifyPrimary maps one backend HTTP response to an Outcome. This is the
// single classification point for the primary path: status handling, the
// payment marker, and the soft-failure markers all live here.
func classifyPrimary(status int, body []byte) Outcome {
	switch {
	case status == http.StatusUnauthorized:
		return Outcome{Kind: KindAuthRequired, Reason: "backend returned 401"}

	case status == http.StatusForbidden:
		var apiErr chatErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error == markerPaymentRequired {
			return Outcome{Kind: KindQuotaExceeded, Reason: "backend returned 403 " + markerPaymentRequired}
		}
		// A 403 without the payment marker is an upstream refusal we can
		// still try to route around.
		return Outcome{Kind: KindBackendSoftFail, Reason: "backend returned 403"}

	case status < 200 || status >= 300:
		return Outcome{Kind: KindBackendSoftFail, Reason: "backend returned " + strconv.Itoa(status)}
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Outcome{Kind: KindBackendSoftFail, Reason: "malformed backend response: " + err.Error()}
	}

	if isSoftFailureText(resp.Response) {
		return Outcome{Kind: KindBackendSoftFail, Reason: "backend signaled upstream failure"}
	}

	out := Outcome{Kind: KindBackend, Text: resp.Response}
	if resp.MessageCount != nil {
		out.MessageCount = *resp.MessageCount
		out.HasCount = true
	}
	return out
}
