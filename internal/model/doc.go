// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
//
// # Key Types
//
//   - Turn: one immutable message authored by the user or the assistant
//   - Transcript: the ordered, append-only list of turns for a session
//   - Role: author enumeration (user, assistant)
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.Append(model.RoleUser, "Hola")
//	for _, turn := range tr.Turns() {
//	    fmt.Println(turn.Role.DisplayName(), turn.Content)
//	}
package model
