// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	for name, cfg := range map[string]SpinnerConfig{
		"TypingDots":  TypingDots,
		"DotsSpinner": DotsSpinner,
	} {
		if len(cfg.Frames) == 0 {
			t.Errorf("%s should have frames", name)
		}
		if cfg.FPS <= 0 {
			t.Errorf("%s FPS should be positive", name)
		}
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{6, time.Second / 6},
		{12, time.Second / 12},
		{0, time.Second},
	}
	for _, tc := range tests {
		if got := (SpinnerConfig{FPS: tc.fps}).Duration(); got != tc.want {
			t.Errorf("Duration() with %d FPS = %v, want %v", tc.fps, got, tc.want)
		}
	}
}

func TestGetFrameCycles(t *testing.T) {
	base := time.Unix(0, 0)
	step := TypingDots.Duration()
	for i := range TypingDots.Frames {
		got := TypingDots.GetFrame(base.Add(time.Duration(i) * step))
		if got != TypingDots.Frames[i] {
			t.Errorf("frame %d = %q, want %q", i, got, TypingDots.Frames[i])
		}
	}
	if got := (SpinnerConfig{}).GetFrame(base); got != "" {
		t.Errorf("empty config frame = %q", got)
	}
}

func TestBubblesSpinner(t *testing.T) {
	s := TypingDots.Bubbles()
	if len(s.Frames) != len(TypingDots.Frames) {
		t.Errorf("frames = %d, want %d", len(s.Frames), len(TypingDots.Frames))
	}
	if s.FPS != TypingDots.Duration() {
		t.Errorf("FPS = %v, want %v", s.FPS, TypingDots.Duration())
	}
}

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestBubbleColorsFollowPalette(t *testing.T) {
	if UserBubbleBg.Dark != "#2563EB" || UserBubbleBg.Light != "#2563EB" {
		t.Errorf("user bubbles should be blue-600 in both themes, got %+v", UserBubbleBg)
	}
	if AssistantBubbleBg.Dark != "#374151" {
		t.Errorf("dark assistant bubble = %s, want gray-700", AssistantBubbleBg.Dark)
	}
	if AssistantBubbleBg.Light != "#E5E7EB" {
		t.Errorf("light assistant bubble = %s, want gray-200", AssistantBubbleBg.Light)
	}
}

func TestRenderHelpersKeepIndicators(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{RenderSuccess("guardado"), StatusIndicators.Success},
		{RenderError("falló"), StatusIndicators.Error},
		{RenderInfo("hola"), StatusIndicators.Info},
	}
	for _, tc := range tests {
		if !strings.Contains(tc.got, tc.want) {
			t.Errorf("%q should contain %q", tc.got, tc.want)
		}
	}
	if !strings.Contains(RenderMuted("pista"), "pista") {
		t.Error("RenderMuted should keep its text")
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func restoreBackground(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })
}

func TestNewThemeSetsMode(t *testing.T) {
	restoreBackground(t)

	theme := NewTheme(false)
	if theme.IsDark {
		t.Fatal("NewTheme(false) should be light")
	}
	if lipgloss.HasDarkBackground() {
		t.Error("light theme should clear lipgloss dark background")
	}
	if theme.UserBubble.Render("hola") == "" {
		t.Error("styles should be initialized")
	}
}

func TestToggle(t *testing.T) {
	restoreBackground(t)

	theme := NewTheme(true)
	if got := theme.Toggle(); got {
		t.Error("Toggle from dark should return false")
	}
	if lipgloss.HasDarkBackground() {
		t.Error("lipgloss should follow the toggle")
	}
	if got := theme.Toggle(); !got {
		t.Error("second Toggle should return true")
	}
	if !lipgloss.HasDarkBackground() {
		t.Error("lipgloss should be dark again")
	}
}

func TestResolveDark(t *testing.T) {
	if ResolveDark("light") {
		t.Error("light should resolve to false")
	}
	if !ResolveDark("dark") {
		t.Error("dark should resolve to true")
	}
	if !ResolveDark("") {
		t.Error("unknown names fall back to dark")
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	theme := &Theme{}
	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: mode = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{10, 20},
		{50, 46},
		{80, 60},
		{120, 72},
	}
	theme := &Theme{}
	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		if got := theme.BubbleWidth(); got != tc.want {
			t.Errorf("width %d: bubble width = %d, want %d", tc.width, got, tc.want)
		}
	}
}
