// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings handled above every screen.
type KeyMap struct {
	Theme  key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the application-wide bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "tema"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "cerrar sesión"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "salir"),
		),
	}
}
