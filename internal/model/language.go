// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// =============================================================================
// LANGUAGE TYPE
// =============================================================================

// Language selects the response language sent to the backend and the
// localized strings used for failure messages and fallback preambles.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguagePersian Language = "Persian"
	LanguageArabic  Language = "Arabic"
)

// DefaultLanguage is used when none is configured.
const DefaultLanguage = LanguageEnglish

// Languages fixes the display order for pickers.
var Languages = []Language{LanguageEnglish, LanguagePersian, LanguageArabic}

// String returns the string representation of the language.
func (l Language) String() string {
	return string(l)
}

// RTL reports whether the language is written right-to-left.
func (l Language) RTL() bool {
	return l == LanguagePersian || l == LanguageArabic
}

// ParseLanguage maps a user-supplied name to a Language.
// Returns the language and true if recognized.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return LanguageEnglish, true
	case "persian", "farsi", "fa":
		return LanguagePersian, true
	case "arabic", "ar":
		return LanguageArabic, true
	}
	return "", false
}

// =============================================================================
// DIRECTION DETECTION
// =============================================================================

// IsRTLText reports whether s reads right-to-left, so the UI can align
// assistant content correctly regardless of the configured language.
func IsRTLText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	var p bidi.Paragraph
	p.SetString(s)
	if o, err := p.Order(); err == nil && o.NumRuns() > 0 {
		return o.Direction() == bidi.RightToLeft
	}

	// Fall back to scanning for the first strongly-directional rune.
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) || unicode.Is(unicode.Hebrew, r) {
			return true
		}
		if unicode.IsLetter(r) {
			return false
		}
	}
	return false
}
