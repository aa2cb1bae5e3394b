// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// TypingDots - Three dots bouncing in turn while the assistant is replying
var TypingDots = SpinnerConfig{
	Frames: []string{"•··", "·•·", "··•", "·•·"},
	FPS:    6,
}

// DotsSpinner - ASCII fallback for TypingDots
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// GetFrame returns the frame shown at time t.
func (s SpinnerConfig) GetFrame(t time.Time) string {
	if len(s.Frames) == 0 {
		return ""
	}
	idx := int(t.UnixNano()/int64(s.Duration())) % len(s.Frames)
	return s.Frames[idx]
}

// Bubbles converts the config into a bubbles spinner definition.
func (s SpinnerConfig) Bubbles() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}
