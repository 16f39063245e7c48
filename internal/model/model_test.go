// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// TURN TESTS
// =============================================================================

func TestNewTurn_GeneratesID(t *testing.T) {
	a := NewUserTurn("hello")
	b := NewUserTurn("hello")

	if a.ID == "" || b.ID == "" {
		t.Fatal("Turn IDs should not be empty")
	}
	if a.ID == b.ID {
		t.Errorf("Turn IDs should be unique, both were %q", a.ID)
	}
	if a.Role != RoleUser {
		t.Errorf("Role = %q, want %q", a.Role, RoleUser)
	}
}

func TestNewPendingTurn(t *testing.T) {
	p := NewPendingTurn()

	if p.Role != RoleAssistant {
		t.Errorf("Role = %q, want assistant", p.Role)
	}
	if !p.Pending {
		t.Error("Pending should be true")
	}
	if !p.IsEmpty() {
		t.Error("placeholder should have empty content")
	}
}

func TestTurn_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content unchanged", "hi", 10, "hi"},
		{"long content truncated", "hello world", 8, "hello..."},
		{"unicode truncation", "سلام دنیای بزرگ", 7, "سلام..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewAssistantTurn(tc.content).Preview(tc.maxLen)
			if got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendReturnsIndex(t *testing.T) {
	conv := NewConversation("gpt-5")

	if idx := conv.Append(NewUserTurn("one")); idx != 0 {
		t.Errorf("first Append index = %d, want 0", idx)
	}
	if idx := conv.Append(NewPendingTurn()); idx != 1 {
		t.Errorf("second Append index = %d, want 1", idx)
	}
	if conv.Len() != 2 {
		t.Errorf("Len() = %d, want 2", conv.Len())
	}
}

func TestConversation_ReplaceLast(t *testing.T) {
	conv := NewConversation("gpt-5")
	conv.Append(NewUserTurn("question"))
	conv.Append(NewPendingTurn())

	conv.ReplaceLast("answer")

	if got := conv.Last().Content; got != "answer" {
		t.Errorf("Last().Content = %q, want %q", got, "answer")
	}
}

func TestConversation_ReplaceLast_EmptyIsNoop(t *testing.T) {
	conv := NewConversation("gpt-5")

	// Must not panic and must not create turns.
	conv.ReplaceLast("anything")

	if conv.Len() != 0 {
		t.Errorf("Len() = %d, want 0", conv.Len())
	}
}

func TestConversation_SetContent(t *testing.T) {
	conv := NewConversation("gpt-5")
	idx := conv.Append(NewPendingTurn())
	conv.Append(NewUserTurn("later"))

	conv.SetContent(idx, "filled in")

	if got := conv.Turns[idx].Content; got != "filled in" {
		t.Errorf("Turns[%d].Content = %q, want %q", idx, got, "filled in")
	}
	// Out-of-range indexes are ignored.
	conv.SetContent(99, "nope")
	conv.SetContent(-1, "nope")
	if conv.Len() != 2 {
		t.Errorf("Len() = %d, want 2", conv.Len())
	}
}

func TestConversation_SnapshotIsCopy(t *testing.T) {
	conv := NewConversation("gpt-5")
	conv.Append(NewUserTurn("a"))

	snap := conv.Snapshot()
	conv.Append(NewUserTurn("b"))

	if len(snap) != 1 {
		t.Errorf("snapshot length = %d, want 1", len(snap))
	}
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestModels_Registry(t *testing.T) {
	for _, id := range ModelOrder {
		if _, ok := Models[id]; !ok {
			t.Errorf("model %q in ModelOrder missing from registry", id)
		}
	}
	if !IsKnownModel(DefaultModel) {
		t.Errorf("DefaultModel %q missing from registry", DefaultModel)
	}
}

func TestGetModelInfo(t *testing.T) {
	if _, ok := GetModelInfo("gpt-5"); !ok {
		t.Error("exact ID lookup failed")
	}
	if info, ok := GetModelInfo("deep"); !ok || info.ID != "deepseek" {
		t.Errorf("partial name lookup = %+v, %v", info, ok)
	}
	if _, ok := GetModelInfo("no-such-model"); ok {
		t.Error("unknown model should not resolve")
	}
}

func TestSeedBanner(t *testing.T) {
	banner := SeedBanner("gpt-5")
	if !strings.Contains(banner, "GPT-5") {
		t.Errorf("banner %q should contain display name", banner)
	}
	if !strings.HasPrefix(banner, "SYSTEM: Switched to ") {
		t.Errorf("banner %q has wrong prefix", banner)
	}
}

// =============================================================================
// LANGUAGE TESTS
// =============================================================================

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"English", LanguageEnglish, true},
		{"en", LanguageEnglish, true},
		{"farsi", LanguagePersian, true},
		{"  FA ", LanguagePersian, true},
		{"arabic", LanguageArabic, true},
		{"klingon", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseLanguage(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLanguage(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLanguage_RTL(t *testing.T) {
	if LanguageEnglish.RTL() {
		t.Error("English should not be RTL")
	}
	if !LanguagePersian.RTL() || !LanguageArabic.RTL() {
		t.Error("Persian and Arabic should be RTL")
	}
}

func TestIsRTLText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"english", "hello world", false},
		{"persian", "سلام دنیا", true},
		{"arabic", "مرحبا بالعالم", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"leading punctuation then latin", "...ok", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRTLText(tc.in); got != tc.want {
				t.Errorf("IsRTLText(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
