// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the top-level Bubble Tea model. It owns the application
// state (theme, signed-in user, active screen), the particle layer shared
// by both screens and the bridge from the config watcher.
package app

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/jeranaias/davom-tui/internal/auth"
	"github.com/jeranaias/davom-tui/internal/config"
	"github.com/jeranaias/davom-tui/internal/conversation"
	"github.com/jeranaias/davom-tui/internal/particles"
	"github.com/jeranaias/davom-tui/internal/reveal"
	"github.com/jeranaias/davom-tui/internal/ui/chat"
	"github.com/jeranaias/davom-tui/internal/ui/login"
	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// Screen identifies the visible screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChat
)

// String returns the screen name used in logs.
func (s Screen) String() string {
	if s == ScreenChat {
		return "chat"
	}
	return "login"
}

// =============================================================================
// MESSAGES
// =============================================================================

// ThemeChangedMsg switches the whole application to dark or light.
type ThemeChangedMsg struct {
	IsDark bool
}

// configMsg carries a config reloaded by the watcher.
type configMsg struct {
	cfg *config.Config
}

// configErrMsg carries a reload failure; the previous config stays active.
type configErrMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the application.
type Options struct {
	Config *config.Config

	// Gate checks logins; built from Config.Auth when nil.
	Gate login.Authenticator

	// Replier answers questions; a SimulatedReplier from Config.Chat when nil.
	Replier conversation.Replier

	// Watcher delivers config reloads; optional.
	Watcher *config.Watcher

	// Overrides is applied to every reloaded config before it takes effect.
	Overrides func(*config.Config)

	// Profile is the output colour profile; particles are off for Ascii.
	Profile termenv.Profile

	// Seed fixes particle seeding; time-seeded when zero.
	Seed int64

	Logger *slog.Logger
}

// Model is the application model.
type Model struct {
	cfg     *config.Config
	theme   *styles.Theme
	keyMap  KeyMap
	logger  *slog.Logger
	profile termenv.Profile
	seed    int64

	ctx       context.Context
	cancel    context.CancelFunc
	watcher   *config.Watcher
	overrides func(*config.Config)

	scheduler *conversation.Scheduler
	layer     *particles.Layer

	login login.Model
	chat  chat.Model

	screen   Screen
	username string

	width  int
	height int
	sized  bool
}

// New creates the application on the login screen.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gate := opts.Gate
	if gate == nil {
		gate = auth.NewGate(cfg.Auth)
	}
	replier := opts.Replier
	if replier == nil {
		replier = conversation.SimulatedReplier{Delay: cfg.Chat.ReplyDelay(), Text: cfg.Chat.ReplyText}
	}

	ctx, cancel := context.WithCancel(context.Background())
	theme := styles.NewTheme(styles.ResolveDark(cfg.UI.Theme))
	keys := DefaultKeyMap()

	sched := conversation.New(
		conversation.WithReplier(replier),
		conversation.WithRevealInterval(cfg.Chat.RevealInterval()),
		conversation.WithReplyTimeout(cfg.Chat.ReplyTimeout()),
		conversation.WithContext(ctx),
		conversation.WithLogger(logger),
	)

	m := Model{
		cfg:       cfg,
		theme:     theme,
		keyMap:    keys,
		logger:    logger,
		profile:   opts.Profile,
		seed:      opts.Seed,
		ctx:       ctx,
		cancel:    cancel,
		watcher:   opts.Watcher,
		overrides: opts.Overrides,
		scheduler: sched,
		login:     login.New(theme, gate, cfg.Chat.BrandName),
		chat: chat.New(theme, sched, chat.Options{
			Brand:       cfg.Chat.BrandName,
			Online:      cfg.Chat.Online,
			Placeholder: cfg.Chat.Placeholder,
			Markdown:    cfg.UI.Markdown,
			ExtraHelp:   []key.Binding{keys.Theme, keys.Logout, keys.Quit},
			Logger:      logger,
		}),
	}
	m.layer = m.newLayer()
	return m
}

func (m Model) newLayer() *particles.Layer {
	l := particles.NewLayer(particles.LayerConfig{
		Count:    m.cfg.UI.ParticleCount,
		FPS:      m.cfg.UI.FPS,
		Disabled: !m.cfg.UI.Particles,
		Seed:     m.seed,
		Profile:  m.profile,
		Logger:   m.logger,
	})
	l.SetTheme(m.theme.IsDark)
	return l
}

// Init starts the login cursor and the config bridge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.login.Init(), m.waitForConfig())
}

// Screen returns the visible screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Username returns the signed-in user, or "" on the login screen.
func (m Model) Username() string {
	return m.username
}

// IsDark reports the active theme.
func (m Model) IsDark() bool {
	return m.theme.IsDark
}

// Layer returns the particle layer behind the active screen.
func (m Model) Layer() *particles.Layer {
	return m.layer
}

// Scheduler returns the conversation scheduler.
func (m Model) Scheduler() *conversation.Scheduler {
	return m.scheduler
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the application, the layer and the screens.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ThemeChangedMsg:
		m.setTheme(msg.IsDark)
		return m, nil

	case login.LoggedInMsg:
		m.username = msg.Username
		m.chat.SetUsername(msg.Username)
		m.logger.Info("signed in", "user", msg.Username)
		cmd := m.switchTo(ScreenChat)
		return m, tea.Batch(cmd, m.chat.Init())

	case particles.FrameMsg:
		return m, m.layer.Update(msg)

	case configMsg:
		if m.overrides != nil {
			m.overrides(msg.cfg)
		}
		cmd := m.applyConfig(msg.cfg)
		return m, tea.Batch(cmd, m.waitForConfig())

	case configErrMsg:
		m.logger.Warn("config reload failed", "err", msg.err)
		return m, m.waitForConfig()

	// The conversation keeps running while signed out, so its messages
	// always go to the chat screen.
	case conversation.ReplyMsg, reveal.TickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	return m.updateScreen(msg)
}

func (m Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.screen == ScreenChat {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.login.SetSize(msg.Width, msg.Height)
	m.chat.SetSize(msg.Width, msg.Height)

	m.sized = true
	// A layer that could not mount yet (zero size) mounts once the
	// terminal reports a usable size.
	if !m.layer.Active() {
		if msg.Width <= 0 || msg.Height <= 0 {
			return m, nil
		}
		return m, m.layer.Mount(msg.Width, msg.Height)
	}
	m.layer.Resize(msg.Width, msg.Height)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Theme):
		dark := !m.theme.IsDark
		return m, func() tea.Msg { return ThemeChangedMsg{IsDark: dark} }

	case key.Matches(msg, m.keyMap.Logout) && m.screen == ScreenChat:
		m.logger.Info("signed out", "user", m.username)
		m.username = ""
		m.chat.SetUsername("")
		m.login.Reset()
		cmd := m.switchTo(ScreenLogin)
		return m, tea.Batch(cmd, m.login.Init())
	}
	return m.updateScreen(msg)
}

// switchTo changes screen. The particle layer is torn down with the old
// screen and the next one mounts a freshly seeded field.
func (m *Model) switchTo(s Screen) tea.Cmd {
	m.screen = s
	m.layer.Teardown()
	if !m.sized {
		return nil
	}
	return m.layer.Mount(m.width, m.height)
}

func (m *Model) setTheme(dark bool) {
	if dark == m.theme.IsDark {
		return
	}
	m.theme.SetDark(dark)
	m.layer.SetTheme(dark)
	m.chat.ThemeChanged()
	m.logger.Info("theme changed", "dark", dark)
}

// applyConfig takes the parts of a reloaded config that can change at
// runtime. Chat timings and credentials apply on the next start.
func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	prev := m.cfg
	m.cfg = cfg
	m.logger.Info("config reloaded")

	// Asking the terminal for its background while the program owns stdin
	// is unreliable, so a switch to "auto" keeps the current mode.
	if cfg.UI.Theme != prev.UI.Theme && cfg.UI.Theme != config.ThemeAuto {
		m.setTheme(styles.ResolveDark(cfg.UI.Theme))
	}
	if cfg.Chat.Online != prev.Chat.Online {
		m.chat.SetOnline(cfg.Chat.Online)
	}
	if cfg.UI.Markdown != prev.UI.Markdown {
		m.chat.SetMarkdown(cfg.UI.Markdown)
	}

	if cfg.UI.Particles != prev.UI.Particles ||
		cfg.UI.ParticleCount != prev.UI.ParticleCount ||
		cfg.UI.FPS != prev.UI.FPS {
		m.layer.Teardown()
		m.layer = m.newLayer()
		if m.sized {
			return m.layer.Mount(m.width, m.height)
		}
	}
	return nil
}

// waitForConfig blocks on the watcher for the next reload or error.
func (m Model) waitForConfig() tea.Cmd {
	w, ctx := m.watcher, m.ctx
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg := <-w.Updates():
			return configMsg{cfg: cfg}
		case err := <-w.Errors():
			return configErrMsg{err: err}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) shutdown() {
	m.scheduler.Close()
	m.layer.Teardown()
	m.cancel()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen over the particle layer.
func (m Model) View() string {
	var ui string
	if m.screen == ScreenChat {
		ui = m.chat.View()
	} else {
		ui = m.login.View()
	}
	return m.layer.Overlay(ui)
}
