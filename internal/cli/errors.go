// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/davom-tui/internal/auth"
	"github.com/jeranaias/davom-tui/internal/particles"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config", "auth")
	Action  string // Action being performed (e.g., "set", "hash-password")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ConfigError marks failures to load, validate or save the config file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		cfgErr *ConfigError
		ttyErr *TTYRequiredError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidCode):
		return ExitAuthError
	case errors.As(err, &ttyErr), errors.Is(err, particles.ErrNoDrawingContext):
		return ExitUsageError
	}
	return ExitGeneralError
}
