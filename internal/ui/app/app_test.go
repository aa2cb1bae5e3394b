// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/davom-tui/internal/config"
	"github.com/jeranaias/davom-tui/internal/conversation"
	"github.com/jeranaias/davom-tui/internal/model"
	"github.com/jeranaias/davom-tui/internal/particles"
	"github.com/jeranaias/davom-tui/internal/ui/login"
)

type openGate struct{}

func (openGate) Authenticate(string, string, string) error { return nil }
func (openGate) RequiresCode() bool                        { return false }

func newTestApp(t *testing.T, profile termenv.Profile) Model {
	t.Helper()
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })

	cfg := config.Default()
	cfg.UI.ParticleCount = 12
	cfg.UI.Markdown = false
	cfg.Chat.RevealIntervalMs = 1

	m := New(Options{
		Config:  cfg,
		Gate:    openGate{},
		Replier: conversation.ReplierFunc(func(context.Context, []model.Turn) (model.Turn, error) { return model.NewAssistantTurn("ok"), nil }),
		Profile: profile,
		Seed:    7,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(m.shutdown)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(Model)
	require.True(t, ok)
	return am, cmd
}

func ctrl(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// replyFrom runs a submit command and returns the reply it produced.
func replyFrom(t *testing.T, cmd tea.Cmd) conversation.ReplyMsg {
	t.Helper()
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if r, ok := c().(conversation.ReplyMsg); ok {
				return r
			}
		}
	}
	r, ok := msg.(conversation.ReplyMsg)
	require.True(t, ok, "no reply message in %T", msg)
	return r
}

func signIn(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, login.LoggedInMsg{Username: "ana"})
}

func TestStartsOnLogin(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.True(t, m.IsDark(), "default theme is dark")
	assert.Contains(t, m.View(), "Bienvenido a DAVOM IA")
	assert.False(t, m.Layer().Active(), "layer waits for the first size")
}

func TestFirstResizeMountsLayer(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	require.NotNil(t, cmd)
	require.True(t, m.Layer().Active())
	field := m.Layer().Field()
	assert.Equal(t, 12, field.Len())

	m, cmd = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd, "later resizes do not restart the frame chain")
	assert.Same(t, field, m.Layer().Field(), "resize keeps the field")
	cols, rows := m.Layer().Canvas().Dimensions()
	assert.Equal(t, 100, cols)
	assert.Equal(t, 30, rows)
}

func TestLayerMountsOnceSizeIsUsable(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Nil(t, cmd)
	assert.False(t, m.Layer().Active())

	m, cmd = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	require.NotNil(t, cmd, "first usable size starts the frame chain")
	assert.True(t, m.Layer().Active())
	_, ok := cmd().(particles.FrameMsg)
	assert.True(t, ok)
}

func TestAsciiTerminalLeavesLayerInert(t *testing.T) {
	m := newTestApp(t, termenv.Ascii)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, m.Layer().Active())
	assert.Contains(t, m.View(), "Iniciar Sesión")

	m, cmd = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	assert.False(t, m.Layer().Active())
}

func TestThemeToggle(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := update(t, m, ctrl(tea.KeyCtrlT))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, ThemeChangedMsg{IsDark: false}, msg)

	m, _ = update(t, m, msg)
	assert.False(t, m.IsDark())
	assert.False(t, m.Layer().Dark())
	assert.False(t, lipgloss.HasDarkBackground())
}

func TestLoginSwitchesScreenAndReseeds(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, first := update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	before := m.Layer().Field()

	m, cmd := signIn(t, m)
	require.NotNil(t, cmd)
	assert.Equal(t, ScreenChat, m.Screen())
	assert.Equal(t, "ana", m.Username())
	assert.NotSame(t, before, m.Layer().Field(), "new screen mounts a new field")
	assert.Contains(t, m.View(), "Generar respuesta")
	assert.Contains(t, m.View(), "ana")

	// A frame scheduled for the login screen's field is dropped.
	m, cmd = update(t, m, first())
	assert.Nil(t, cmd)
}

func TestLogoutKeepsTranscript(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = signIn(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hola")})
	m, cmd := update(t, m, ctrl(tea.KeyEnter))
	require.NotNil(t, cmd)
	require.True(t, m.Scheduler().Busy())

	m, _ = update(t, m, ctrl(tea.KeyCtrlL))
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Empty(t, m.Username())
	assert.True(t, m.Layer().Active(), "login screen mounts its own field")

	// The reply still lands while signed out.
	m, _ = update(t, m, replyFrom(t, cmd))
	assert.False(t, m.Scheduler().Busy())
	assert.Equal(t, 2, m.Scheduler().Len())

	m, _ = signIn(t, m)
	assert.Equal(t, 2, m.Scheduler().Len(), "transcript survives logout")
}

func TestLogoutKeyIgnoredOnLogin(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, _ = update(t, m, ctrl(tea.KeyCtrlL))
	assert.Equal(t, ScreenLogin, m.Screen())
}

func TestQuit(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := update(t, m, ctrl(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Layer().Active())
}

func TestConfigReload(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = signIn(t, m)

	next := m.cfg.Clone()
	next.UI.Theme = config.ThemeLight
	next.Chat.Online = false
	next.UI.Particles = false

	m, _ = update(t, m, configMsg{cfg: next})
	assert.False(t, m.IsDark())
	assert.Contains(t, m.View(), "Offline")
	assert.False(t, m.Layer().Active(), "particles switched off")

	next = next.Clone()
	next.UI.Particles = true
	m, cmd := update(t, m, configMsg{cfg: next})
	assert.NotNil(t, cmd)
	assert.True(t, m.Layer().Active())
}

func TestConfigReloadKeepsOverrides(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m.overrides = func(c *config.Config) {
		c.UI.Theme = config.ThemeDark
		c.UI.Particles = false
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	next := m.cfg.Clone()
	next.Chat.Online = false
	m, _ = update(t, m, configMsg{cfg: next})
	require.True(t, m.IsDark())
	require.False(t, m.Layer().Active())

	// An edit to the file cannot undo the overrides.
	next = next.Clone()
	next.UI.Theme = config.ThemeLight
	next.UI.Particles = true
	m, cmd := update(t, m, configMsg{cfg: next})
	assert.Nil(t, cmd)
	assert.True(t, m.IsDark())
	assert.False(t, m.Layer().Active())
	assert.Equal(t, config.ThemeDark, m.cfg.UI.Theme)
	assert.False(t, m.cfg.Chat.Online, "other reloaded values still apply")
}

func TestConfigReloadToAutoKeepsMode(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	next := m.cfg.Clone()
	next.UI.Theme = config.ThemeAuto
	m, _ = update(t, m, configMsg{cfg: next})
	assert.True(t, m.IsDark())
}

func TestConfigErrorKeepsRunning(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, cmd := update(t, m, configErrMsg{err: errors.New("bad toml")})
	assert.Nil(t, cmd, "no watcher to wait on")
	assert.Equal(t, ScreenLogin, m.Screen())
}

func TestFrameAdvancesLayer(t *testing.T) {
	m := newTestApp(t, termenv.TrueColor)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	msg, ok := cmd().(particles.FrameMsg)
	require.True(t, ok)

	m, cmd = update(t, m, msg)
	assert.NotNil(t, cmd, "frame chain re-arms")
	assert.Regexp(t, `[.+o]`, m.Layer().Canvas().Render(), "particles drawn")
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "login", ScreenLogin.String())
	assert.Equal(t, "chat", ScreenChat.String())
}
