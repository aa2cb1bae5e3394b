// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat screen: header, transcript viewport,
// typing indicator and the question input.
//
// The screen is a thin view over a conversation.Scheduler. Enter submits
// the input; the scheduler decides whether it is accepted. Reply and
// reveal messages are forwarded to the scheduler and the transcript is
// re-rendered after each of them. The viewport follows the newest turn
// unless the user has scrolled up.
package chat
