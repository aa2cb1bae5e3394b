// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in screen shown before the chat.
package login

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/davom-tui/internal/auth"
	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// Authenticator checks one login attempt. *auth.Gate implements it.
type Authenticator interface {
	Authenticate(username, password, code string) error
	RequiresCode() bool
}

// LoggedInMsg is emitted once a login attempt succeeds.
type LoggedInMsg struct {
	Username string
}

// resultMsg carries the outcome of an attempt checked off the event loop.
type resultMsg struct {
	attempt  int
	username string
	err      error
}

const (
	fieldUser = iota
	fieldPassword
	fieldCode
)

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the login screen bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

// DefaultKeyMap returns the default login bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "siguiente campo"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "campo anterior"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "iniciar sesión"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the login screen.
type Model struct {
	theme  *styles.Theme
	gate   Authenticator
	keyMap KeyMap
	brand  string

	inputs []textinput.Model
	focus  int

	err      string
	checking bool
	attempt  int

	width  int
	height int
}

// New creates a login screen. The code field is shown only when the gate
// requires one.
func New(theme *styles.Theme, gate Authenticator, brand string) Model {
	if brand == "" {
		brand = "DAVOM IA"
	}

	user := textinput.New()
	user.Placeholder = "Tu nombre de usuario"
	user.CharLimit = 64
	user.Prompt = ""

	password := textinput.New()
	password.Placeholder = "Tu contraseña"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Prompt = ""

	inputs := []textinput.Model{user, password}
	if gate.RequiresCode() {
		code := textinput.New()
		code.Placeholder = "123456"
		code.CharLimit = 6
		code.Prompt = ""
		inputs = append(inputs, code)
	}

	m := Model{
		theme:  theme,
		gate:   gate,
		keyMap: DefaultKeyMap(),
		brand:  brand,
		inputs: inputs,
		width:  80,
		height: 24,
	}
	m.setFocus(fieldUser)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears every field and error, e.g. after logout.
func (m *Model) Reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.err = ""
	m.checking = false
	m.attempt++
	m.setFocus(fieldUser)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	for i := range m.inputs {
		m.inputs[i].Width = m.fieldWidth() - 1
	}
}

// Err returns the inline error shown under the fields.
func (m Model) Err() string {
	return m.err
}

// Checking reports whether an attempt is being verified.
func (m Model) Checking() bool {
	return m.checking
}

// Focused returns the index of the focused field.
func (m Model) Focused() int {
	return m.focus
}

// Update handles key presses and attempt results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Next):
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, m.keyMap.Prev):
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, m.keyMap.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// submit moves to the next empty field, or checks the attempt off the
// event loop since bcrypt is deliberately slow.
func (m Model) submit() (Model, tea.Cmd) {
	if m.checking {
		return m, nil
	}
	for i, in := range m.inputs {
		if strings.TrimSpace(in.Value()) == "" && i != m.focus {
			m.setFocus(i)
			return m, nil
		}
	}

	m.checking = true
	m.err = ""
	m.attempt++

	gate, attempt := m.gate, m.attempt
	username := strings.TrimSpace(m.inputs[fieldUser].Value())
	password := m.inputs[fieldPassword].Value()
	code := ""
	if len(m.inputs) > fieldCode {
		code = m.inputs[fieldCode].Value()
	}
	return m, func() tea.Msg {
		return resultMsg{
			attempt:  attempt,
			username: username,
			err:      gate.Authenticate(username, password, code),
		}
	}
}

func (m Model) handleResult(msg resultMsg) (Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		return m, nil
	}
	m.checking = false

	if msg.err != nil {
		m.err = errorText(msg.err)
		m.inputs[fieldPassword].Reset()
		if len(m.inputs) > fieldCode {
			m.inputs[fieldCode].Reset()
		}
		if errors.Is(msg.err, auth.ErrInvalidCode) {
			m.setFocus(fieldCode)
		} else {
			m.setFocus(fieldPassword)
		}
		return m, nil
	}

	username := msg.username
	return m, func() tea.Msg { return LoggedInMsg{Username: username} }
}

func errorText(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "Introduce tu usuario y tu contraseña."
	case errors.Is(err, auth.ErrInvalidCode):
		return "Código de verificación no válido."
	default:
		return "Usuario o contraseña incorrectos."
	}
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) fieldWidth() int {
	w := m.width - 16
	if w > 40 {
		w = 40
	}
	if w < 16 {
		w = 16
	}
	return w
}

// View renders the card centred in the screen. The margins are left as
// plain spaces so a particle layer can paint behind the card.
func (m Model) View() string {
	t := m.theme
	fw := m.fieldWidth()

	rows := []string{t.LoginTitle.Render("Bienvenido a " + m.brand)}
	labels := []string{"Usuario", "Contraseña", "Código de verificación"}
	for i, in := range m.inputs {
		box := t.InputContainer
		if i == m.focus {
			box = t.InputFocused
		}
		rows = append(rows,
			t.Label.Render(labels[i]),
			box.Width(fw).Render(in.View()),
		)
	}

	if m.err != "" {
		rows = append(rows, t.FieldError.Render(m.err))
	} else {
		rows = append(rows, "")
	}

	button := t.Button
	label := "Iniciar Sesión"
	if m.checking {
		button = t.ButtonDisabled
		label = "Verificando..."
	}
	rows = append(rows,
		button.Render(label),
		"",
		t.Hint.Render("tab campo · enter entrar · ctrl+t tema · ctrl+c salir"),
	)

	card := t.LoginCard.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return center(card, m.width, m.height)
}

// center places block in the middle of a width×height area using only
// leading spaces and blank lines.
func center(block string, width, height int) string {
	lines := strings.Split(block, "\n")
	left := (width - lipgloss.Width(block)) / 2
	if left < 0 {
		left = 0
	}
	top := (height - len(lines)) / 2
	if top < 0 {
		top = 0
	}

	pad := strings.Repeat(" ", left)
	out := make([]string, 0, top+len(lines))
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	for _, l := range lines {
		out = append(out, pad+l)
	}
	return strings.Join(out, "\n")
}
