// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the user identity consumed by the send pipeline.
package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Error variables for the profile store.
var (
	// ErrNoProfile indicates no active profile row exists yet.
	ErrNoProfile = errors.New("no active profile")
)

// schema holds the active profile. A single-row table: the app tracks one
// signed-in identity at a time, keyed by id 1.
const schema = `
CREATE TABLE IF NOT EXISTS profile (
	id                  INTEGER PRIMARY KEY CHECK (id = 1),
	email               TEXT    NOT NULL,
	is_admin            INTEGER NOT NULL DEFAULT 0,
	message_count       INTEGER NOT NULL DEFAULT 0,
	subscription_expiry INTEGER NOT NULL DEFAULT 0,
	updated_at          INTEGER NOT NULL
);
`

// =============================================================================
// PROFILE STORE
// =============================================================================

// Store persists the active identity in a local SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDBPath returns the profile database location under the user's
// config directory.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".nitro", "identity.db"), nil
}

// OpenStore opens (creating if necessary) the profile database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// PROFILE ACCESS
// =============================================================================

// Load returns the persisted identity, or ErrNoProfile when the store is
// empty.
func (s *Store) Load() (Identity, error) {
	var (
		id     Identity
		admin  int64
		expiry int64
	)

	row := s.db.QueryRow("SELECT email, is_admin, message_count, subscription_expiry FROM profile WHERE id = 1")
	if err := row.Scan(&id.Email, &admin, &id.MessageCount, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNoProfile
		}
		return Identity{}, fmt.Errorf("load profile: %w", err)
	}

	id.IsAdmin = admin != 0
	if expiry > 0 {
		id.SubscriptionExpiry = time.Unix(expiry, 0)
	}
	return id, nil
}

// LoadOrGuest returns the persisted identity, falling back to the guest
// identity when nothing is stored.
func (s *Store) LoadOrGuest() Identity {
	id, err := s.Load()
	if err != nil {
		return Guest()
	}
	return id
}

// Save upserts the active identity.
func (s *Store) Save(id Identity) error {
	admin := 0
	if id.IsAdmin {
		admin = 1
	}
	var expiry int64
	if !id.SubscriptionExpiry.IsZero() {
		expiry = id.SubscriptionExpiry.Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO profile (id, email, is_admin, message_count, subscription_expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			is_admin = excluded.is_admin,
			message_count = excluded.message_count,
			subscription_expiry = excluded.subscription_expiry,
			updated_at = excluded.updated_at`,
		id.Email, admin, id.MessageCount, expiry, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// UpdateMessageCount persists the server-reported quota counter without
// touching the rest of the profile.
func (s *Store) UpdateMessageCount(n int) error {
	res, err := s.db.Exec("UPDATE profile SET message_count = ?, updated_at = ? WHERE id = 1", n, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("update message count: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNoProfile
	}
	return nil
}

// Clear removes the persisted profile, returning the app to guest mode.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM profile WHERE id = 1"); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
