// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/davom-tui/internal/conversation"
	"github.com/jeranaias/davom-tui/internal/model"
	"github.com/jeranaias/davom-tui/internal/reveal"
	"github.com/jeranaias/davom-tui/internal/ui/components"
	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// Rows taken by everything except the transcript viewport.
const (
	headerHeight = 2 // title line + bottom border
	inputHeight  = 3 // rounded box around one line
	footerHeight = 1
)

// Options configures the chat screen.
type Options struct {
	Brand       string
	Online      bool
	Placeholder string
	Markdown    bool

	// ExtraHelp is appended to the footer, for bindings owned by the caller.
	ExtraHelp []key.Binding

	Logger *slog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme     *styles.Theme
	scheduler *conversation.Scheduler
	logger    *slog.Logger

	// UI Components
	header   *components.Header
	renderer *components.MessageRenderer
	typing   components.TypingIndicator
	viewport viewport.Model
	input    textinput.Model
	help     help.Model

	keyMap    KeyMap
	extraHelp []key.Binding

	// follow keeps the viewport pinned to the newest turn.
	follow bool
	status string

	copyText func(string) error

	width  int
	height int
}

// New creates the chat screen over sched.
func New(theme *styles.Theme, sched *conversation.Scheduler, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	header := components.NewHeader(theme)
	if opts.Brand != "" {
		header.Brand = opts.Brand
	}
	header.SetOnline(opts.Online)

	in := textinput.New()
	in.Placeholder = opts.Placeholder
	if in.Placeholder == "" {
		in.Placeholder = "Escribe tu pregunta..."
	}
	in.Prompt = "> "
	in.CharLimit = 2000
	in.Focus()

	m := Model{
		theme:     theme,
		scheduler: sched,
		logger:    logger,
		header:    header,
		renderer:  components.NewMessageRenderer(theme, opts.Markdown),
		typing:    components.NewTypingIndicator(theme),
		viewport:  viewport.New(80, 18),
		input:     in,
		help:      help.New(),
		keyMap:    DefaultKeyMap(),
		extraHelp: opts.ExtraHelp,
		follow:    true,
		copyText:  clipboard.WriteAll,
	}
	m.SetSize(80, 24)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize lays the screen out for a width×height terminal.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.help.Width = width

	vh := height - headerHeight - inputHeight - footerHeight
	if vh < 1 {
		vh = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vh

	iw := m.inputBoxWidth() - m.theme.InputContainer.GetHorizontalFrameSize() - len(m.input.Prompt) - 1
	if iw < 4 {
		iw = 4
	}
	m.input.Width = iw

	m.refresh()
}

// SetUsername shows the signed-in user in the header.
func (m *Model) SetUsername(name string) {
	m.header.SetUsername(name)
}

// SetOnline updates the header badge.
func (m *Model) SetOnline(online bool) {
	m.header.SetOnline(online)
}

// SetMarkdown turns markdown rendering of finished replies on or off.
func (m *Model) SetMarkdown(on bool) {
	m.renderer.SetMarkdown(on)
	m.refresh()
}

// ThemeChanged re-renders everything after the theme flipped.
func (m *Model) ThemeChanged() {
	m.renderer.Invalidate()
	m.refresh()
}

// Follow reports whether the viewport is pinned to the newest turn.
func (m Model) Follow() bool {
	return m.follow
}

// Status returns the transient footer message, if any.
func (m Model) Status() string {
	return m.status
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys, mouse wheel, reply/reveal messages and the typing
// indicator's ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd

	case conversation.ReplyMsg, reveal.TickMsg:
		cmd := m.scheduler.Update(msg)
		if !m.scheduler.Busy() {
			m.typing.Stop()
		}
		m.refresh()
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		if m.typing.Active() {
			m.refresh()
		}
		return m, cmd
	}

	// Cursor blink and anything else the input understands.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.CopyLast):
		m.copyLast()
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		m.follow = m.viewport.AtBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit offers the input to the scheduler. Rejected input stays in the
// field so nothing the user typed is lost.
func (m Model) submit() (Model, tea.Cmd) {
	accepted, cmd := m.scheduler.Submit(m.input.Value())
	if !accepted {
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.follow = true
	start := m.typing.Start()
	m.refresh()
	return m, tea.Batch(cmd, start)
}

func (m *Model) copyLast() {
	turns := m.scheduler.Transcript()
	var last *model.Turn
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].IsAssistant() && !turns[i].IsError {
			last = &turns[i]
			break
		}
	}

	if last == nil {
		m.status = styles.RenderInfo("Todavía no hay respuestas que copiar.")
		return
	}
	if err := m.copyText(last.Content); err != nil {
		m.logger.Warn("clipboard unavailable", "err", err)
		m.status = styles.RenderError("No se pudo copiar la respuesta.")
		return
	}
	m.status = styles.RenderSuccess("Respuesta copiada al portapapeles.")
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.renderer.SetWidth(m.viewport.Width)
	content := m.renderer.RenderAll(m.scheduler.Transcript(), m.visible)
	if dots := m.typing.View(); dots != "" {
		if content != "" {
			content += "\n\n"
		}
		content += dots
	}
	m.viewport.SetContent(content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) visible(t model.Turn) (string, bool) {
	return m.scheduler.RevealedPrefix(t.ID), m.scheduler.Revealing(t.ID)
}
