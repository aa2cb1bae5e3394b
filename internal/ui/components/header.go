// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/davom-tui/internal/ui/styles"
	"github.com/jeranaias/davom-tui/internal/util"
)

// maxUsernameWidth bounds the username shown on the right of the header.
const maxUsernameWidth = 16

// =============================================================================
// HEADER COMPONENT - Brand, connection badge and theme switch
// =============================================================================

// Header is the one-line title bar shown above the chat.
type Header struct {
	Brand    string // Brand name (default: "DAVOM IA")
	Online   bool   // Drives the Online/Offline badge
	Username string // Signed-in user, shown on the right when set
	Width    int    // Available width
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Brand:  "DAVOM IA",
		Online: true,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetOnline updates the connection badge.
func (h *Header) SetOnline(online bool) {
	h.Online = online
}

// SetUsername updates the user shown on the right.
func (h *Header) SetUsername(name string) {
	h.Username = name
}

// Badge renders the Online/Offline badge.
func (h *Header) Badge() string {
	if h.Online {
		return h.theme.BadgeOnline.Render(styles.StatusIndicators.Online + " Online")
	}
	return h.theme.BadgeOffline.Render(styles.StatusIndicators.Offline + " Offline")
}

// ThemeSwitch renders the sun/moon indicator with the active side lit.
func (h *Header) ThemeSwitch() string {
	sun, moon := styles.StatusIndicators.Sun, styles.StatusIndicators.Moon
	dim := h.theme.Hint
	if h.theme.IsDark {
		return dim.Render(sun) + " " + h.theme.ThemeSwitch.Render(moon)
	}
	return h.theme.ThemeSwitch.Render(sun) + " " + dim.Render(moon)
}

// View renders the header across the full width.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - h.theme.Header.GetHorizontalFrameSize()

	left := h.theme.HeaderBrand.Render(h.Brand) + " " + h.Badge()

	rightParts := []string{h.ThemeSwitch()}
	if h.Username != "" {
		rightParts = append(rightParts, h.theme.HeaderMenu.Render(util.TruncateWidth(h.Username, maxUsernameWidth)))
	}
	right := strings.Join(rightParts, "  ")

	// Drop the right side before letting the line wrap.
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = inner - lipgloss.Width(left)
	}
	if gap < 0 {
		gap = 0
	}

	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(width).Render(line)
}
