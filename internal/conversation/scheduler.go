// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation implements the turn scheduler behind the chat screen.
//
// The Scheduler is a two-state machine (Idle, AwaitingReply). A submission
// from Idle appends the user's turn synchronously and returns a Bubble Tea
// command that asks the Replier for an answer. When the ReplyMsg comes back
// the assistant turn (or an error turn) is appended, a reveal stream starts
// for it, and the machine returns to Idle. Submissions while a reply is
// pending are ignored.
//
// All methods must be called from the Bubble Tea update loop; the only work
// done off that loop is the Replier call inside the returned command.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/davom-tui/internal/model"
	"github.com/jeranaias/davom-tui/internal/reveal"
)

// DefaultReplyTimeout bounds a single reply exchange.
const DefaultReplyTimeout = 30 * time.Second

// State is the scheduler state.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// ReplyMsg carries the outcome of a reply exchange back to the update loop.
type ReplyMsg struct {
	Seq  int
	Turn model.Turn
	Err  error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithReplier sets the reply source. The default is NewSimulatedReplier().
func WithReplier(r Replier) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.replier = r
		}
	}
}

// WithRevealInterval sets the per-character reveal cadence.
func WithRevealInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.revealInterval = d }
}

// WithReplyTimeout bounds each reply exchange. Zero or negative disables it.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.replyTimeout = d }
}

// WithContext sets the parent context of every reply exchange.
func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTranscript resumes an existing transcript instead of starting empty.
func WithTranscript(t *model.Transcript) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.transcript = t
		}
	}
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler owns the transcript and the per-turn reveal streams.
type Scheduler struct {
	replier        Replier
	revealInterval time.Duration
	replyTimeout   time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	logger         *slog.Logger

	transcript *model.Transcript
	state      State
	seq        int
	pending    int // transcript index of the user turn awaiting an answer

	reveals map[string]reveal.Stream // keyed by turn ID
}

// New creates an idle scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		replier:        NewSimulatedReplier(),
		revealInterval: reveal.DefaultInterval,
		replyTimeout:   DefaultReplyTimeout,
		ctx:            context.Background(),
		logger:         slog.Default(),
		transcript:     model.NewTranscript(),
		pending:        -1,
		reveals:        make(map[string]reveal.Stream),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(s.ctx)
	s.logger = s.logger.With("component", "conversation")
	return s
}

// Submit offers user input. Blank input and input arriving while a reply
// is pending are rejected with (false, nil) and leave everything unchanged.
// Accepted input is appended to the transcript before Submit returns; the
// returned command performs the reply exchange.
func (s *Scheduler) Submit(text string) (bool, tea.Cmd) {
	if s.state != StateIdle || strings.TrimSpace(text) == "" {
		return false, nil
	}

	s.transcript.AppendTurn(model.NewUserTurn(text))
	s.pending = s.transcript.Len() - 1
	s.state = StateAwaitingReply
	s.seq++

	return true, s.requestReply(s.seq, s.transcript.Turns())
}

func (s *Scheduler) requestReply(seq int, snapshot []model.Turn) tea.Cmd {
	replier := s.replier
	parent := s.ctx
	timeout := s.replyTimeout
	return func() tea.Msg {
		ctx := parent
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, timeout)
			defer cancel()
		}
		turn, err := replier.Reply(ctx, snapshot)
		return ReplyMsg{Seq: seq, Turn: turn, Err: err}
	}
}

// Update handles reply outcomes and reveal ticks. Other messages are ignored.
func (s *Scheduler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReplyMsg:
		return s.handleReply(msg)
	case reveal.TickMsg:
		return s.handleTick(msg)
	}
	return nil
}

func (s *Scheduler) handleReply(msg ReplyMsg) tea.Cmd {
	if s.state != StateAwaitingReply || msg.Seq != s.seq {
		return nil
	}
	s.state = StateIdle
	s.pending = -1

	if err := classify(msg.Turn, msg.Err); err != nil {
		s.logger.Warn("reply failed", "err", err)
		s.transcript.AppendTurn(model.NewErrorTurn(UserMessage(err)))
		return nil
	}

	turn := msg.Turn
	turn.IsError = false
	if _, dup := s.transcript.Find(turn.ID); dup {
		turn.ID = ""
	}
	turn.CreatedAt = time.Time{}
	turn = s.transcript.AppendTurn(turn)

	stream := reveal.New(s.revealInterval)
	cmd := stream.Start(turn.Content)
	if !stream.Done() {
		s.reveals[turn.ID] = stream
	}
	return cmd
}

func (s *Scheduler) handleTick(msg reveal.TickMsg) tea.Cmd {
	for id, stream := range s.reveals {
		if stream.ID() != msg.ID {
			continue
		}
		next, cmd := stream.Update(msg)
		if next.Done() {
			delete(s.reveals, id)
		} else {
			s.reveals[id] = next
		}
		return cmd
	}
	return nil
}

// Close cancels any reply exchange in flight. The scheduler stays usable
// for reads but later exchanges fail immediately.
func (s *Scheduler) Close() {
	s.cancel()
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Busy reports whether a reply is pending.
func (s *Scheduler) Busy() bool {
	return s.state == StateAwaitingReply
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Transcript returns a snapshot of the turns in order.
func (s *Scheduler) Transcript() []model.Turn {
	return s.transcript.Turns()
}

// Len returns the number of turns.
func (s *Scheduler) Len() int {
	return s.transcript.Len()
}

// PendingIndex returns the transcript index of the user turn awaiting a
// reply, or -1 when idle.
func (s *Scheduler) PendingIndex() int {
	return s.pending
}

// RevealedPrefix returns the part of a turn that should be displayed. Turns
// without an active reveal are shown in full; unknown IDs yield "".
func (s *Scheduler) RevealedPrefix(turnID string) string {
	if stream, ok := s.reveals[turnID]; ok {
		return stream.Prefix()
	}
	if turn, ok := s.transcript.Find(turnID); ok {
		return turn.Content
	}
	return ""
}

// Revealing reports whether a turn is still being revealed.
func (s *Scheduler) Revealing(turnID string) bool {
	_, ok := s.reveals[turnID]
	return ok
}

// AnyRevealing reports whether any turn is still being revealed.
func (s *Scheduler) AnyRevealing() bool {
	return len(s.reveals) > 0
}
