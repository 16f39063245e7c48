// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the user identity consumed by the send pipeline.
//
// The session core only reads the email (for the backend call) and the
// quota-related fields; login and signup live elsewhere. Identity persists
// across runs in a local profile store so the chat survives restarts even
// though conversations do not.
package auth

import (
	"strings"
	"time"
)

// GuestEmail identifies the profile used when no one has signed in.
const GuestEmail = "guest@local"

// =============================================================================
// IDENTITY TYPE
// =============================================================================

// Identity holds the quota-relevant view of a user.
type Identity struct {
	Email              string    `json:"email"`
	IsAdmin            bool      `json:"is_admin"`
	MessageCount       int       `json:"message_count"`
	SubscriptionExpiry time.Time `json:"subscription_expiry"`
}

// Guest returns the anonymous fallback identity.
func Guest() Identity {
	return Identity{Email: GuestEmail}
}

// IsGuest reports whether the identity is the anonymous fallback.
func (i Identity) IsGuest() bool {
	return i.Email == "" || i.Email == GuestEmail
}

// HasActiveSubscription reports whether the subscription is unexpired.
func (i Identity) HasActiveSubscription(now time.Time) bool {
	return i.SubscriptionExpiry.After(now)
}

// DisplayName returns a short label for the status bar.
func (i Identity) DisplayName() string {
	if i.IsGuest() {
		return "guest"
	}
	if at := strings.IndexByte(i.Email, '@'); at > 0 {
		return i.Email[:at]
	}
	return i.Email
}
