// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/davom-tui/internal/model"
)

func TestSimulatedReplierDefaults(t *testing.T) {
	r := NewSimulatedReplier()
	assert.Equal(t, DefaultReplyDelay, r.Delay)
	assert.Equal(t, DefaultReplyText, r.Text)
}

func TestSimulatedReplierWaitsForDelay(t *testing.T) {
	r := SimulatedReplier{Delay: 20 * time.Millisecond, Text: "listo"}

	start := time.Now()
	turn, err := r.Reply(context.Background(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 18*time.Millisecond)
	assert.Equal(t, "listo", turn.Content)
	assert.Equal(t, model.RoleAssistant, turn.Role)
	assert.NotEmpty(t, turn.ID)
}

func TestSimulatedReplierEmptyText(t *testing.T) {
	turn, err := SimulatedReplier{}.Reply(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultReplyText, turn.Content)
}

func TestSimulatedReplierHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SimulatedReplier{Delay: time.Minute}.Reply(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = SimulatedReplier{}.Reply(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplyErrorIs(t *testing.T) {
	wrapped := &ReplyError{Kind: KindTimeout, Message: "slow", Cause: context.DeadlineExceeded}
	assert.ErrorIs(t, wrapped, ErrTimeout)
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	assert.NotErrorIs(t, wrapped, ErrUnavailable)
	assert.Equal(t, "slow: context deadline exceeded", wrapped.Error())

	outer := fmt.Errorf("exchange: %w", wrapped)
	assert.ErrorIs(t, outer, ErrTimeout)
}

func TestClassify(t *testing.T) {
	ok := model.NewAssistantTurn("bien")
	assert.NoError(t, classify(ok, nil))

	assert.ErrorIs(t, classify(model.Turn{}, context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, classify(model.Turn{}, fmt.Errorf("dial: %w", context.DeadlineExceeded)), ErrTimeout)
	assert.ErrorIs(t, classify(model.Turn{}, errors.New("boom")), ErrUnavailable)
	assert.ErrorIs(t, classify(model.Turn{}, ErrInvalidResponse), ErrInvalidResponse)
	assert.ErrorIs(t, classify(model.NewUserTurn("x"), nil), ErrInvalidResponse)
	assert.ErrorIs(t, classify(model.NewAssistantTurn(""), nil), ErrInvalidResponse)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(ErrTimeout), "tardó")
	assert.Contains(t, UserMessage(ErrUnavailable), "no está disponible")
	assert.Contains(t, UserMessage(ErrInvalidResponse), "no válida")
	assert.Equal(t, "No se pudo obtener una respuesta.", UserMessage(errors.New("x")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "unavailable", KindUnavailable.String())
	assert.Equal(t, "invalid_response", KindInvalidResponse.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
