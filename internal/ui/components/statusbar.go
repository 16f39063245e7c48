// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
	"github.com/jeranaias/nitro-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom bar: model, language, quota and shortcuts.
type StatusBar struct {
	Theme     *styles.Theme
	Width     int
	Model     string
	Language  model.Language
	Remaining int // -1 means unlimited
	Busy      bool
	Notice    string
}

// Render renders the status line.
func (s StatusBar) Render() string {
	var left []string

	left = append(left, s.Theme.StatusModel.Render(s.Model))
	left = append(left, s.Theme.StatusQuota.Render(string(s.Language)))

	switch {
	case s.Remaining < 0:
		left = append(left, s.Theme.StatusQuota.Render("unlimited"))
	default:
		left = append(left, s.Theme.StatusQuota.Render(fmt.Sprintf("%d left", s.Remaining)))
	}

	if s.Busy {
		left = append(left, s.Theme.StatusNotice.Render("working"))
	}
	if s.Notice != "" {
		// Notices come from arbitrary command output; keep them to one
		// line and leave room for the shortcut hints.
		notice := util.FirstLine(s.Notice)
		if s.Width > 0 {
			notice = util.TruncateWidth(notice, s.Width/2)
		}
		left = append(left, s.Theme.StatusNotice.Render(notice))
	}

	leftStr := strings.Join(left, s.Theme.StatusBar.Render(" | "))

	shortcuts := strings.Join([]string{
		s.Theme.ShortcutKey.Render("^O") + s.Theme.ShortcutDesc.Render(" model"),
		s.Theme.ShortcutKey.Render("^L") + s.Theme.ShortcutDesc.Render(" lang"),
		s.Theme.ShortcutKey.Render("^C") + s.Theme.ShortcutDesc.Render(" quit"),
	}, " ")

	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}

	line := " " + leftStr + strings.Repeat(" ", gap) + shortcuts + " "
	return s.Theme.StatusBar.Width(s.Width).Render(line)
}
