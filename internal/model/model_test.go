// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TURN TESTS
// =============================================================================

func TestNewTurn(t *testing.T) {
	turn := NewUserTurn("hola")

	assert.NotEmpty(t, turn.ID)
	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "hola", turn.Content)
	assert.False(t, turn.CreatedAt.IsZero())
	assert.True(t, turn.IsUser())
	assert.False(t, turn.IsAssistant())
	assert.False(t, turn.IsError)
}

func TestNewErrorTurn(t *testing.T) {
	turn := NewErrorTurn("sin conexión")

	assert.True(t, turn.IsAssistant())
	assert.True(t, turn.IsError)
}

func TestTurnIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewAssistantTurn("x").ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTurnIsBlank(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{"  a  ", false},
	}
	for _, tc := range tests {
		if got := NewUserTurn(tc.content).IsBlank(); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.False(t, Role("").Valid())
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()
	require.Equal(t, 0, tr.Len())

	tr.Append(RoleUser, "uno")
	tr.Append(RoleAssistant, "dos")
	tr.Append(RoleUser, "tres")

	turns := tr.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "uno", turns[0].Content)
	assert.Equal(t, "dos", turns[1].Content)
	assert.Equal(t, "tres", turns[2].Content)
	assert.Equal(t, 3, tr.Len())
}

func TestTranscriptTurnsReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleUser, "original")

	turns := tr.Turns()
	turns[0].Content = "changed"

	first, ok := tr.At(0)
	require.True(t, ok)
	assert.Equal(t, "original", first.Content)
}

func TestTranscriptAppendTurnFillsMissingFields(t *testing.T) {
	tr := NewTranscript()
	got := tr.AppendTurn(Turn{Role: RoleAssistant, Content: "hola"})

	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, tr.UpdatedAt)
}

func TestTranscriptLookups(t *testing.T) {
	tr := NewTranscript()

	_, ok := tr.Last()
	assert.False(t, ok)
	_, ok = tr.At(0)
	assert.False(t, ok)

	user := tr.Append(RoleUser, "pregunta")
	answer := tr.Append(RoleAssistant, "respuesta")
	tr.AppendTurn(NewErrorTurn("fallo"))

	found, ok := tr.Find(user.ID)
	require.True(t, ok)
	assert.Equal(t, "pregunta", found.Content)

	_, ok = tr.Find("missing")
	assert.False(t, ok)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.True(t, last.IsError)

	lastAnswer, ok := tr.LastAssistant()
	require.True(t, ok)
	assert.Equal(t, answer.ID, lastAnswer.ID)

	_, ok = tr.At(-1)
	assert.False(t, ok)
}
