// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Tú"
	case RoleAssistant:
		return "DAVOM IA"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is one message in the conversation. Turns are values and are never
// modified after they are appended to a Transcript.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// IsError marks an assistant turn that reports a failed reply instead of
	// carrying a real answer.
	IsError bool `json:"is_error,omitempty"`
}

// NewTurn creates a turn with a fresh ID.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) Turn {
	return NewTurn(RoleUser, content)
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string) Turn {
	return NewTurn(RoleAssistant, content)
}

// NewErrorTurn creates an assistant turn describing a failed reply.
func NewErrorTurn(content string) Turn {
	t := NewTurn(RoleAssistant, content)
	t.IsError = true
	return t
}

// IsUser returns true if the turn was authored by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}

// IsAssistant returns true if the turn was authored by the assistant.
func (t Turn) IsAssistant() bool {
	return t.Role == RoleAssistant
}

// IsBlank reports whether the content is empty or whitespace only.
func (t Turn) IsBlank() bool {
	return strings.TrimSpace(t.Content) == ""
}
