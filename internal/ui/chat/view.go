// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// buttonMinWidth is the narrowest terminal that still shows the button.
const buttonMinWidth = 50

// View renders the chat screen.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.renderInput(),
		m.renderFooter(),
	)
}

func (m Model) inputBoxWidth() int {
	w := m.width
	if m.width >= buttonMinWidth {
		w -= lipgloss.Width(m.renderButton()) + 1
	}
	// Width() below excludes the border.
	return w - 2
}

func (m Model) renderButton() string {
	if m.scheduler.Busy() {
		return m.theme.ButtonDisabled.Render("Generar respuesta")
	}
	return m.theme.Button.Render("Generar respuesta")
}

func (m Model) renderInput() string {
	box := m.theme.InputFocused.Width(m.inputBoxWidth()).Render(m.input.View())
	if m.width < buttonMinWidth {
		return box
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, box, " ", m.renderButton())
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.status
	}
	bindings := append(m.keyMap.ShortHelp(), m.extraHelp...)
	return m.help.ShortHelpView(bindings)
}
