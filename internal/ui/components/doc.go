// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable pieces of the chat screen: the
// header bar, the typing indicator and the message bubble renderer.
package components
