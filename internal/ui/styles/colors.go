// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the DAVOM TUI.
// All colors use Lip Gloss AdaptiveColor; the light or dark variant is
// picked by the theme the user has toggled, not by terminal detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Blue - Brand accent, user bubbles, focused inputs and buttons
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#2563EB"}

// BlueBright - Hover/focus variant of the accent
var BlueBright = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}

// Green - Online badge
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}

// Red - Offline badge, errors
var Red = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}

// Amber - Sun indicator in the theme switch
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Page background (gray-100 / gray-900)
var Surface = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"}

// SurfaceRaised - Header bar and login card (white / gray-800)
var SurfaceRaised = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1F2937"}

// Border - Separators and idle input borders (gray-300 / gray-600)
var Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#D1D5DB"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

// TextInverse - Text on the blue accent
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User bubbles are blue-600 in both themes.
var UserBubbleBg = Blue
var UserBubbleFg = TextInverse

// Assistant bubbles are gray-200 on light and gray-700 on dark.
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F3F4F6"}

var ErrorBubbleBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#7F1D1D"}
var ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds shape indicators so state is not carried by
// color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Info    string
	Online  string
	Offline string
	Sun     string
	Moon    string
}

// StatusIndicators used across screens.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[x]",
	Info:    "[i]",
	Online:  "●",
	Offline: "○",
	Sun:     "☀",
	Moon:    "☾",
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// RenderSuccess renders a success line with a shape indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().
		Foreground(Green).
		Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with a shape indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().
		Foreground(Red).
		Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders an info line.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().
		Foreground(Blue).
		Render(StatusIndicators.Info + " " + message)
}

// RenderMuted renders de-emphasized text such as hints.
func RenderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(text)
}
