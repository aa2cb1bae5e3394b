// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"time"

	"github.com/jeranaias/davom-tui/internal/model"
)

const (
	// DefaultReplyDelay is the simulated latency of the built-in replier.
	DefaultReplyDelay = 2000 * time.Millisecond

	// DefaultReplyText is the canned answer of the built-in replier.
	DefaultReplyText = "Esta es una respuesta de ejemplo del asistente IA. " +
		"Puedo proporcionar información sobre diversos temas relacionados con " +
		"la inteligencia artificial y el aprendizaje automático."
)

// Replier produces the assistant's answer to a transcript. Implementations
// must honour ctx and should fail with ErrTimeout, ErrUnavailable or
// ErrInvalidResponse; other errors are classified by the scheduler.
//
// The transcript slice is a snapshot owned by the callee.
type Replier interface {
	Reply(ctx context.Context, transcript []model.Turn) (model.Turn, error)
}

// ReplierFunc adapts a function to the Replier interface.
type ReplierFunc func(ctx context.Context, transcript []model.Turn) (model.Turn, error)

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, transcript []model.Turn) (model.Turn, error) {
	return f(ctx, transcript)
}

// SimulatedReplier answers every request with the same text after a fixed
// delay. A zero Delay answers immediately; an empty Text uses DefaultReplyText.
type SimulatedReplier struct {
	Delay time.Duration
	Text  string
}

// NewSimulatedReplier returns the replier used when none is configured.
func NewSimulatedReplier() SimulatedReplier {
	return SimulatedReplier{Delay: DefaultReplyDelay, Text: DefaultReplyText}
}

// Reply waits for the delay and returns the canned assistant turn.
func (r SimulatedReplier) Reply(ctx context.Context, _ []model.Turn) (model.Turn, error) {
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.Turn{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return model.Turn{}, err
	}

	text := r.Text
	if text == "" {
		text = DefaultReplyText
	}
	return model.NewAssistantTurn(text), nil
}
