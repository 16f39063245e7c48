// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the user identity consumed by the send pipeline.
package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrNoProfile))

	id := s.LoadOrGuest()
	assert.True(t, id.IsGuest())
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	expiry := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	want := Identity{
		Email:              "user@example.com",
		IsAdmin:            true,
		MessageCount:       17,
		SubscriptionExpiry: expiry,
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want.Email, got.Email)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, 17, got.MessageCount)
	assert.Equal(t, expiry.Unix(), got.SubscriptionExpiry.Unix())
}

func TestStore_SaveIsUpsert(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(Identity{Email: "first@example.com"}))
	require.NoError(t, s.Save(Identity{Email: "second@example.com", MessageCount: 3}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", got.Email)
	assert.Equal(t, 3, got.MessageCount)
}

func TestStore_UpdateMessageCount(t *testing.T) {
	s := newTestStore(t)

	// No profile yet: the counter has nothing to attach to.
	assert.True(t, errors.Is(s.UpdateMessageCount(5), ErrNoProfile))

	require.NoError(t, s.Save(Identity{Email: "user@example.com"}))
	require.NoError(t, s.UpdateMessageCount(5))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, got.MessageCount)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Identity{Email: "user@example.com"}))

	require.NoError(t, s.Clear())

	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrNoProfile))
}

func TestIdentity_Helpers(t *testing.T) {
	g := Guest()
	assert.True(t, g.IsGuest())
	assert.Equal(t, "guest", g.DisplayName())

	u := Identity{Email: "dana@example.com"}
	assert.False(t, u.IsGuest())
	assert.Equal(t, "dana", u.DisplayName())

	now := time.Now()
	assert.False(t, u.HasActiveSubscription(now))
	u.SubscriptionExpiry = now.Add(time.Hour)
	assert.True(t, u.HasActiveSubscription(now))
}
