// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// The dark/light choice is owned by the application, not detected once:
// SetDark flips lipgloss's background flag so every AdaptiveColor follows.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderBrand  lipgloss.Style
	BadgeOnline  lipgloss.Style
	BadgeOffline lipgloss.Style
	ThemeSwitch  lipgloss.Style
	HeaderMenu   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	Timestamp       lipgloss.Style
	Typing          lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Hint           lipgloss.Style

	// ==========================================================================
	// LOGIN STYLES
	// ==========================================================================

	LoginCard  lipgloss.Style
	LoginTitle lipgloss.Style
	Label      lipgloss.Style
	FieldError lipgloss.Style
}

// NewTheme creates a theme in the given mode.
func NewTheme(dark bool) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetDark(dark)
	return t
}

// ResolveDark maps a configured theme name to a mode. "auto" asks the
// terminal; anything else but "light" is dark.
func ResolveDark(name string) bool {
	switch name {
	case "light":
		return false
	case "auto":
		return termenv.HasDarkBackground()
	default:
		return true
	}
}

// SetDark switches every style to the dark or light palette.
func (t *Theme) SetDark(dark bool) {
	t.IsDark = dark
	lipgloss.SetHasDarkBackground(dark)
	t.initStyles()
}

// Toggle flips the mode and returns the new value of IsDark.
func (t *Theme) Toggle() bool {
	t.SetDark(!t.IsDark)
	return t.IsDark
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(TextPrimary)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceRaised).
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	t.BadgeOnline = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Green).
		Padding(0, 1)

	t.BadgeOffline = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Red).
		Padding(0, 1)

	t.ThemeSwitch = lipgloss.NewStyle().Foreground(Amber)

	t.HeaderMenu = lipgloss.NewStyle().Foreground(TextSecondary)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		Padding(0, 1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Typing = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(AssistantBubbleBg).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Blue)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted)

	t.Button = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Blue).
		Bold(true).
		Padding(0, 2)

	t.ButtonDisabled = t.Button.
		Background(Border).
		Foreground(TextMuted)

	t.Hint = lipgloss.NewStyle().Foreground(TextMuted)

	// Login
	t.LoginCard = lipgloss.NewStyle().
		Background(SurfaceRaised).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)

	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.FieldError = lipgloss.NewStyle().Foreground(Red)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// BubbleWidth is the widest a message bubble may grow, including padding.
func (t *Theme) BubbleWidth() int {
	var w int
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		w = t.Width - 4
	case LayoutMedium:
		w = t.Width * 3 / 4
	default:
		w = t.Width * 3 / 5
	}
	if w < 20 {
		w = 20
	}
	return w
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
