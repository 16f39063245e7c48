// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history holds the in-memory per-model conversation store.
// Conversations are seeded with a switch banner on first activation and
// only ever grow; turns are edited in place by index, never removed.
package history
