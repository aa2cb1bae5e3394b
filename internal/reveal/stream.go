// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the character-by-character text reveal effect.
//
// A Stream takes a complete string and discloses it one user-perceived
// character (grapheme cluster) at a time on a fixed cadence. Every prefix is
// a byte prefix of the source, so a finished stream holds exactly the text
// it was given. Timing is driven by Bubble Tea tick commands; every
// stream owns at most one in-flight tick, identified by the stream ID and a
// generation tag. Starting a new text bumps the tag, so a tick armed for the
// previous text is discarded when it arrives.
package reveal

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 50 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances a stream by one character.
type TickMsg struct {
	Time time.Time
	ID   int
	tag  int
}

// =============================================================================
// STREAM
// =============================================================================

// Stream reveals a source text incrementally.
type Stream struct {
	id       int
	tag      int
	interval time.Duration

	source  string
	// ends[i] is the byte offset just past character i.
	ends    []int
	emitted int
	running bool
}

// New creates an idle stream revealing one character per interval.
// A non-positive interval selects DefaultInterval.
func New(interval time.Duration) Stream {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Stream{
		id:       nextID(),
		interval: interval,
	}
}

// ID returns the stream's unique identifier.
func (s Stream) ID() int {
	return s.id
}

// Interval returns the reveal cadence.
func (s Stream) Interval() time.Duration {
	return s.interval
}

// Start resets the stream to the beginning of text and arms the first tick.
// Any tick armed for a previous text is invalidated. Empty text finishes
// immediately and returns a nil command.
func (s *Stream) Start(text string) tea.Cmd {
	s.tag++
	s.source = text
	s.ends = boundaries(text)
	s.emitted = 0

	if len(s.ends) == 0 {
		s.running = false
		return nil
	}
	s.running = true
	return s.tick()
}

// Stop cancels the in-flight tick and leaves the prefix where it is.
func (s *Stream) Stop() {
	s.tag++
	s.running = false
}

// Update handles tick messages addressed to this stream.
func (s Stream) Update(msg tea.Msg) (Stream, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok {
		return s, nil
	}
	if tick.ID != s.id || tick.tag != s.tag || !s.running {
		return s, nil
	}

	if s.emitted < len(s.ends) {
		s.emitted++
	}
	if s.emitted >= len(s.ends) {
		s.running = false
		return s, nil
	}
	return s, s.tick()
}

// Prefix returns the part of the source revealed so far.
func (s Stream) Prefix() string {
	if s.emitted == 0 {
		return ""
	}
	return s.source[:s.ends[s.emitted-1]]
}

// Source returns the complete text being revealed.
func (s Stream) Source() string {
	return s.source
}

// Emitted returns the number of characters revealed so far.
func (s Stream) Emitted() int {
	return s.emitted
}

// Len returns the number of characters in the source.
func (s Stream) Len() int {
	return len(s.ends)
}

// Done reports whether the stream is in its terminal state: nothing is
// scheduled and no further characters will be revealed until Start is called.
func (s Stream) Done() bool {
	return !s.running
}

func (s Stream) tick() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, ID: id, tag: tag}
	})
}

func boundaries(text string) []int {
	var ends []int
	state := -1
	offset := 0
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		offset += len(cluster)
		ends = append(ends, offset)
	}
	return ends
}
