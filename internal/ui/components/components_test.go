// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
)

func TestParseCodeBlocksPreservesProse(t *testing.T) {
	text := "Here is an answer.\nNo code anywhere."
	got := ParseCodeBlocks(text, 80)
	if got != text {
		t.Errorf("prose should pass through unchanged, got %q", got)
	}
}

func TestParseCodeBlocksRendersFence(t *testing.T) {
	text := "Look:\n```go\nfmt.Println(\"hi\")\n```\nDone."
	got := stripANSI(ParseCodeBlocks(text, 80))

	assert.Contains(t, got, "Look:")
	assert.Contains(t, got, "Done.")
	assert.Contains(t, got, "fmt.Println")
	assert.NotContains(t, got, "```")
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	// Mid-reveal text often ends inside a block.
	text := "Partial:\n```python\nprint(1)"
	got := stripANSI(ParseCodeBlocks(text, 80))

	assert.Contains(t, got, "print(1)")
	assert.NotContains(t, got, "```")
}

func TestCodeBlockRenderFallsBackOnUnknownLanguage(t *testing.T) {
	cb := NewCodeBlock("nosuchlang", "x = 1")
	out := cb.Render()
	assert.Contains(t, out, "x = 1")
}

func TestMessageBubblePendingIndicator(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewPendingTurn()
	b := NewMessageBubble(turn, theme, 80)

	out := b.Render()
	assert.Contains(t, out, typingIndicator)
}

func TestMessageBubbleRendersContent(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn("hello back")
	b := NewMessageBubble(turn, theme, 80)

	out := b.Render()
	assert.Contains(t, out, "hello back")
	assert.Contains(t, out, model.RoleAssistant.DisplayName())
}

func TestMessageBubbleRTLContent(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn("سلام دنیا")
	b := NewMessageBubble(turn, theme, 80)

	out := b.Render()
	assert.Contains(t, out, "سلام")
}

func TestHeaderFitsWidth(t *testing.T) {
	theme := styles.NewTheme()
	h := Header{Theme: theme, Width: 60, Model: "gpt-5"}
	out := h.Render()

	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(stripANSI(line))); w > 60 {
			t.Errorf("header line wider than 60: %d", w)
		}
	}
}

func TestHeaderTruncatesLongModelName(t *testing.T) {
	theme := styles.NewTheme()
	h := Header{Theme: theme, Width: 30, Model: strings.Repeat("verylongmodelname", 5)}
	out := h.Render()

	assert.Contains(t, stripANSI(out), "...")
	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(stripANSI(line))); w > 30 {
			t.Errorf("header line wider than 30: %d", w)
		}
	}
}

func TestStatusBarTruncatesNotice(t *testing.T) {
	theme := styles.NewTheme()
	sb := StatusBar{
		Theme:    theme,
		Width:    60,
		Model:    "gpt-5",
		Language: model.LanguageEnglish,
		Notice:   "first line " + strings.Repeat("x", 80) + "\nsecond line",
	}
	out := stripANSI(sb.Render())

	assert.Contains(t, out, "first line")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "second line")
}

func TestStatusBarShowsQuota(t *testing.T) {
	theme := styles.NewTheme()
	sb := StatusBar{
		Theme:     theme,
		Width:     100,
		Model:     "gpt-5",
		Language:  model.LanguageEnglish,
		Remaining: 12,
	}
	out := sb.Render()
	assert.Contains(t, out, "12 left")

	sb.Remaining = -1
	assert.Contains(t, sb.Render(), "unlimited")
}

// stripANSI removes escape sequences for width assertions.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		case r == 0x1b:
			inEsc = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
