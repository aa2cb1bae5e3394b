// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"

	"github.com/jeranaias/davom-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes reply failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindUnavailable
	KindInvalidResponse
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ReplyError is a failed reply exchange.
type ReplyError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ReplyError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ReplyError) Unwrap() error {
	return e.Cause
}

// Is matches any ReplyError of the same kind, so wrapped failures compare
// equal to the sentinels below.
func (e *ReplyError) Is(target error) bool {
	t, ok := target.(*ReplyError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors for errors.Is checks.
var (
	ErrTimeout         = &ReplyError{Kind: KindTimeout, Message: "reply timed out"}
	ErrUnavailable     = &ReplyError{Kind: KindUnavailable, Message: "reply service unavailable"}
	ErrInvalidResponse = &ReplyError{Kind: KindInvalidResponse, Message: "invalid reply"}
)

// UserMessage returns the text shown in the transcript for a failed reply.
func UserMessage(err error) string {
	var re *ReplyError
	if !errors.As(err, &re) {
		return "No se pudo obtener una respuesta."
	}
	switch re.Kind {
	case KindTimeout:
		return "La respuesta tardó demasiado. Inténtalo de nuevo."
	case KindInvalidResponse:
		return "El asistente devolvió una respuesta no válida."
	default:
		return "El asistente no está disponible en este momento."
	}
}

// classify normalizes the outcome of a Replier call. A nil error with an
// unusable turn becomes ErrInvalidResponse; deadline failures become
// ErrTimeout; anything else not already classified becomes ErrUnavailable.
func classify(turn model.Turn, err error) error {
	if err != nil {
		var re *ReplyError
		switch {
		case errors.As(err, &re):
			return err
		case errors.Is(err, context.DeadlineExceeded):
			return &ReplyError{Kind: KindTimeout, Message: ErrTimeout.Message, Cause: err}
		default:
			return &ReplyError{Kind: KindUnavailable, Message: ErrUnavailable.Message, Cause: err}
		}
	}

	switch {
	case !turn.IsAssistant():
		return &ReplyError{Kind: KindInvalidResponse, Message: "reply has role " + string(turn.Role)}
	case turn.IsBlank():
		return &ReplyError{Kind: KindInvalidResponse, Message: "reply is empty"}
	}
	return nil
}
