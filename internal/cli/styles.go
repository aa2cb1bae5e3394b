// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// init configures lipgloss for the output the headless commands write to.
// The TUI renders through Bubble Tea and is not affected.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and banners
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Blue)

	// LabelStyle is used for field labels in key/value listings
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(20)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints and secondary information
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// UserPromptStyle colours the chat REPL prompt like a user bubble
	UserPromptStyle = lipgloss.NewStyle().
			Foreground(styles.BlueBright).
			Bold(true)

	// AssistantLabelStyle introduces assistant replies in the chat REPL
	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.Green).
				Bold(true)
)

// printKV renders one aligned "label value" line.
func printKV(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
