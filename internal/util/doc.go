// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the config layer and the CLI:
// crash-safe file writes and rune/width-aware truncation.
package util
