// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

// =============================================================================
// OUTCOME TYPE
// =============================================================================

// Kind tags the result of one delivery attempt.
type Kind int

const (
	// KindBackend is a clean response from the primary backend.
	KindBackend Kind = iota

	// KindBackendSoftFail means the backend answered but signaled it could
	// not reach the upstream provider. Recovered via fallback, never shown
	// to the user.
	KindBackendSoftFail

	// KindBackendHardFail means the backend was unreachable (transport
	// error). Also recovered via fallback.
	KindBackendHardFail

	// KindDirectFetch is a successful response from the fallback endpoint.
	KindDirectFetch

	// KindDirectFetchFail means both paths failed. Text carries the
	// localized apology shown in the conversation stream.
	KindDirectFetchFail

	// KindAuthRequired is the distinguished 401 case: the session must
	// prompt a re-login rather than show a generic error.
	KindAuthRequired

	// KindQuotaExceeded is the distinguished 403/PAYMENT_REQUIRED case:
	// the session must signal the usage gate's upgrade flow.
	KindQuotaExceeded
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindBackend:
		return "backend"
	case KindBackendSoftFail:
		return "backend-soft-fail"
	case KindBackendHardFail:
		return "backend-hard-fail"
	case KindDirectFetch:
		return "direct-fetch"
	case KindDirectFetchFail:
		return "direct-fetch-fail"
	case KindAuthRequired:
		return "auth-required"
	case KindQuotaExceeded:
		return "quota-exceeded"
	default:
		return "unknown"
	}
}

// Outcome is the result of one dispatch. Classification is total: every code
// path through the dispatcher yields exactly one Outcome, never an error
// escaping to the caller. Outcomes are consumed by the session controller
// and never stored.
type Outcome struct {
	Kind Kind

	// Text is the response body for Backend/DirectFetch, or the localized
	// apology for DirectFetchFail. Empty for the other kinds.
	Text string

	// Reason is a diagnostic for failure kinds, for logging only.
	Reason string

	// MessageCount carries the server-reported quota counter when the
	// backend includes one. Valid only when HasCount is set.
	MessageCount int
	HasCount     bool
}

// Success reports whether the outcome carries displayable response text
// from either delivery path.
func (o Outcome) Success() bool {
	return o.Kind == KindBackend || o.Kind == KindDirectFetch
}

// NeedsFallback reports whether the primary attempt should be retried on
// the direct fallback path.
func (o Outcome) NeedsFallback() bool {
	return o.Kind == KindBackendSoftFail || o.Kind == KindBackendHardFail
}
