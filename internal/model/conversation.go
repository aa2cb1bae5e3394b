// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered, append-only history of turns for one session.
// Insertion order is the conversation order. A Transcript is owned by a single
// writer (the conversation scheduler); readers get copies.
type Transcript struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	turns []Turn
}

// NewTranscript creates an empty transcript with a generated ID.
func NewTranscript() *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		turns:     make([]Turn, 0, 16),
	}
}

// =============================================================================
// APPEND
// =============================================================================

// Append creates a turn with the given role and content and appends it.
func (t *Transcript) Append(role Role, content string) Turn {
	turn := NewTurn(role, content)
	t.AppendTurn(turn)
	return turn
}

// AppendTurn appends an already constructed turn. A turn without an ID gets one.
func (t *Transcript) AppendTurn(turn Turn) Turn {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	t.turns = append(t.turns, turn)
	t.UpdatedAt = turn.CreatedAt
	return turn
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of all turns in conversation order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// At returns the turn at index i.
func (t *Transcript) At(i int) (Turn, bool) {
	if i < 0 || i >= len(t.turns) {
		return Turn{}, false
	}
	return t.turns[i], true
}

// Find returns the turn with the given ID.
func (t *Transcript) Find(id string) (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].ID == id {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// LastAssistant returns the most recent assistant turn that is not an error.
func (t *Transcript) LastAssistant() (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].IsAssistant() && !t.turns[i].IsError {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}
