// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows three bouncing dots in an assistant bubble while a
// reply is pending.
type TypingIndicator struct {
	spinner spinner.Model
	theme   *styles.Theme
	active  bool
}

// NewTypingIndicator creates a stopped indicator.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = styles.TypingDots.Bubbles()
	return TypingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns its first tick.
func (t *TypingIndicator) Start() tea.Cmd {
	if t.active {
		return nil
	}
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator. Ticks already queued are dropped by Update.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// Active returns whether the indicator is running.
func (t TypingIndicator) Active() bool {
	return t.active
}

// Update advances the animation while active.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the dots bubble, or "" when stopped.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.Typing.Render(t.spinner.View())
}
