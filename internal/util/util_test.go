// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the nitro-tui application.
package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny max", "hello", 2, "he"},
		{"zero max", "hello", 0, ""},
		{"unicode safe", "سلام دنیا", 7, "سلام..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.input, tc.maxRunes); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	if got := StringWidth("abc"); got != 3 {
		t.Errorf("StringWidth(abc) = %d, want 3", got)
	}
	// CJK characters take two columns.
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", got)
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("TruncateWidth no-op = %q", got)
	}
	got := TruncateWidth("hello world", 8)
	if StringWidth(got) > 8 {
		t.Errorf("TruncateWidth(%q) wider than 8", got)
	}
	if got := TruncateWidth("hello", 0); got != "" {
		t.Errorf("TruncateWidth zero = %q, want empty", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("one\ntwo"); got != "one" {
		t.Errorf("FirstLine = %q, want one", got)
	}
	if got := FirstLine("single"); got != "single" {
		t.Errorf("FirstLine = %q, want single", got)
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("سلام"); got != 4 {
		t.Errorf("RuneLen = %d, want 4", got)
	}
}
