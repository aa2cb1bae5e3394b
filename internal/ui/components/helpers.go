// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text to width display columns. Words wider than a line are
// broken at the column limit. Existing newlines are kept.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		current, currentWidth := "", 0
		for _, word := range strings.Fields(line) {
			for runewidth.StringWidth(word) > width {
				if currentWidth > 0 {
					result.WriteString(current + "\n")
					current, currentWidth = "", 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				if head == word {
					// A single glyph wider than the line.
					break
				}
				result.WriteString(head + "\n")
				word = word[len(head):]
			}

			w := runewidth.StringWidth(word)
			switch {
			case currentWidth == 0:
				current, currentWidth = word, w
			case currentWidth+1+w <= width:
				current += " " + word
				currentWidth += 1 + w
			default:
				result.WriteString(current + "\n")
				current, currentWidth = word, w
			}
		}
		result.WriteString(current)
	}
	return result.String()
}

// formatTime formats a timestamp as "15:04", or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}
