// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the davom command line.
//
// Commands:
//
//	davom [tui]            Full-screen app: login gate, then chat
//	davom chat             Line-mode chat with progressive reveal
//	davom particles        Particle background on its own
//	davom config ...       show, init, path, get, set, keys
//	davom auth ...         hash-password, totp-secret
//	davom version          Version information
//
// Every command returns its error to Execute, which prints it and maps it
// to an exit code (see ExitCode).
package cli
