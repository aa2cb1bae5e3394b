// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL SIZE
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// DefaultTerminalHeight is the fallback height when detection fails
	DefaultTerminalHeight = 24
)

// GetTerminalSize returns the width and height of the terminal on stdout.
// Returns 80x24 if the size cannot be determined.
func GetTerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultTerminalWidth, DefaultTerminalHeight
	}
	return w, h
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled returns true if colored output should be used.
// NO_COLOR wins over FORCE_COLOR, which wins over TTY detection.
// See https://no-color.org/.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorsEnabled = false
		case os.Getenv("FORCE_COLOR") != "":
			colorsEnabled = true
		default:
			colorsEnabled = IsStdoutTTY()
		}
	})
	return colorsEnabled
}

// GetColorProfile returns the termenv profile for stdout. Ascii means no
// colors, which also means no particle background.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	if p := termenv.ColorProfile(); p != termenv.Ascii {
		return p
	}
	// FORCE_COLOR on a pipe: termenv sees no terminal, assume truecolor.
	return termenv.TrueColor
}

// TTYRequiredError is returned when an operation requires a TTY but none is available.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "stdin is not a terminal; cannot " + e.Operation + " interactively"
	}
	return "stdin is not a terminal; interactive input not available"
}

// RequiresTTY returns an error if stdin is not a terminal.
func RequiresTTY(operation string) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}
