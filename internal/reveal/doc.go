// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal types received answers into the history store a chunk
// at a time. The scheduler holds no timer of its own: callers drive it
// with Tick, which makes the cadence a UI concern and the logic fully
// testable without sleeping.
package reveal
