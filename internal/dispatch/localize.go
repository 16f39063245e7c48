// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

import (
	"github.com/jeranaias/nitro-tui/internal/model"
)

// =============================================================================
// LOCALIZED LITERALS
// =============================================================================

// Apology literals shown as the terminal assistant turn when both delivery
// paths fail. The conversation stream is the single channel for all
// outcomes, so these land in history rather than in a UI error banner.
const (
	apologyEnglish = "SYSTEM_CRITICAL: Unable to establish any connection. Please check your internet."
	apologyPersian = "خطای سیستم: اتصال به شبکه جهانی اینترنت امکان‌پذیر نیست. لطفاً اتصال اینترنت خود را بررسی کنید."
	apologyArabic  = "خطأ فادح في النظام: تعذر إنشاء أي اتصال. يرجى التحقق من اتصالك بالإنترنت."
)

// Fallback preambles. The direct endpoint takes a raw prompt, so the
// preamble does the work the backend's system prompt normally would.
const (
	preambleGeneric = "You are a helpful AI assistant. Keep answers concise."
	preamblePersian = "شما یک دستیار هوشمند هستید. پاسخ‌های شما باید کوتاه، دقیق و به زبان فارسی باشد."
)

// Re-login prompts shown for the distinguished 401 case.
const (
	authPromptEnglish = "SYSTEM: Session expired. Please sign in again."
	authPromptPersian = "سیستم: نشست شما منقضی شده است. لطفاً دوباره وارد شوید."
	authPromptArabic  = "النظام: انتهت صلاحية الجلسة. يرجى تسجيل الدخول مرة أخرى."
)

// Upgrade notices used when the quota is exhausted. The session controller
// fills the optimistic placeholder with this so the pending slot is never
// left as a dangling empty turn.
const (
	upgradeNoticeEnglish = "SYSTEM: Message limit reached. Upgrade your plan to continue."
	upgradeNoticePersian = "سیستم: به سقف پیام‌ها رسیده‌اید. برای ادامه، اشتراک خود را ارتقا دهید."
	upgradeNoticeArabic  = "النظام: لقد بلغت حد الرسائل. يرجى ترقية اشتراكك للمتابعة."
)

// Apology returns the terminal-failure apology for the language.
func Apology(lang model.Language) string {
	switch lang {
	case model.LanguagePersian:
		return apologyPersian
	case model.LanguageArabic:
		return apologyArabic
	default:
		return apologyEnglish
	}
}

// Preamble returns the fallback system preamble for the language. Persian
// and Arabic share the dedicated Persian-language preamble; everything else
// gets the generic one.
func Preamble(lang model.Language) string {
	if lang.RTL() {
		return preamblePersian
	}
	return preambleGeneric
}

// AuthPrompt returns the re-login prompt for the language.
func AuthPrompt(lang model.Language) string {
	switch lang {
	case model.LanguagePersian:
		return authPromptPersian
	case model.LanguageArabic:
		return authPromptArabic
	default:
		return authPromptEnglish
	}
}

// UpgradeNotice returns the quota-exhausted notice for the language.
func UpgradeNotice(lang model.Language) string {
	switch lang {
	case model.LanguagePersian:
		return upgradeNoticePersian
	case model.LanguageArabic:
		return upgradeNoticeArabic
	default:
		return upgradeNoticeEnglish
	}
}
