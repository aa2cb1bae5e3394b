// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the DAVOM TUI.

# Color System (colors.go)

Every color is a Lip Gloss AdaptiveColor taken from the web client's
Tailwind palette:

	Blue              - brand accent, user bubbles, buttons
	Green / Red       - Online / Offline badge
	Surface           - page background (gray-100 / gray-900)
	SurfaceRaised     - header and login card
	AssistantBubbleBg - gray-200 on light, gray-700 on dark

# Theme System (theme.go)

The application owns the dark/light flag. Theme.SetDark flips lipgloss's
background flag, so AdaptiveColor resolves to the chosen side everywhere:

	theme := styles.NewTheme(styles.ResolveDark(cfg.UI.Theme))
	theme.Toggle()

# Animation System (animations.go)

TypingDots is the bouncing three-dot indicator shown while a reply is
pending. SpinnerConfig.Bubbles converts it for the bubbles spinner.
*/
package styles
