// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nitro-tui/internal/model"
	"github.com/jeranaias/nitro-tui/internal/ui/styles"
	"github.com/jeranaias/nitro-tui/internal/util"
)

// =============================================================================
// HEADER BAR
// =============================================================================

// Header renders the top bar: brand on the left, active model on the right.
type Header struct {
	Theme *styles.Theme
	Width int
	Model string
}

// Render renders the header line.
func (h Header) Render() string {
	brand := h.Theme.HeaderBrand.Render(" NITRO ")

	name := h.Model
	if info, ok := model.GetModelInfo(h.Model); ok {
		name = info.Name
	}
	if max := h.Width - lipgloss.Width(brand) - 2; max > 0 {
		name = util.TruncateWidth(name, max)
	}
	right := h.Theme.HeaderModel.Render(name + " ")

	gap := h.Width - lipgloss.Width(brand) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	filler := h.Theme.Header.Render(strings.Repeat(" ", gap))

	return h.Theme.Header.Width(h.Width).Render(brand + filler + right)
}
