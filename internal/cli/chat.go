// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/davom-tui/internal/config"
	"github.com/jeranaias/davom-tui/internal/conversation"
	"github.com/jeranaias/davom-tui/internal/logging"
	"github.com/jeranaias/davom-tui/internal/model"
	"github.com/jeranaias/davom-tui/internal/util"
)

// chatOptions are the flags of the chat command.
type chatOptions struct {
	delay  time.Duration
	reveal time.Duration
}

func newChatCmd(g *globalOptions) *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode, without the full-screen app",
		Long: `Start a line-mode chat. Replies are revealed one character at a time,
exactly like in the full-screen app.

Commands during chat:
  /help, /h       Show available commands
  /history        Show the conversation so far
  /quit, /q       Exit (also: exit, quit, Ctrl+D)`,
		Example: `  davom chat
  davom chat --delay 0 --reveal 10ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, g, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.delay, "delay", -1, "simulated reply latency (default from config)")
	cmd.Flags().DurationVar(&opts.reveal, "reveal", 0, "delay between revealed characters (default from config)")
	return cmd
}

func runChat(cmd *cobra.Command, g *globalOptions, opts chatOptions) error {
	cfg, path, err := g.load()
	if err != nil {
		return err
	}
	if opts.delay >= 0 {
		cfg.Chat.ReplyDelayMs = int(opts.delay / time.Millisecond)
	}
	if opts.reveal > 0 {
		cfg.Chat.RevealIntervalMs = max(1, int(opts.reveal/time.Millisecond))
	}

	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	defer closer.Close()

	editor := newLineEditor()
	defer editor.Close()

	session := newChatSession(cmd.Context(), cfg, editor, cmd.OutOrStdout(), logger)
	defer session.sched.Close()

	session.printWelcome()
	return session.run(cmd.Context())
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the part of liner the chat loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineEditor provides line editing and persistent input history.
type lineEditor struct {
	*liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{State: line, historyFile: filepath.Join(dir, "chat_history")}

	if f, err := os.Open(e.historyFile); err == nil {
		e.ReadHistory(f)
		f.Close()
	}
	return e
}

// Close saves history with owner-only permissions and restores the terminal.
func (e *lineEditor) Close() {
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			e.WriteHistory(f)
			f.Close()
		}
	}
	e.State.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// chatSession drives a Scheduler outside Bubble Tea: it runs each returned
// command inline and prints the revealed text as it grows.
type chatSession struct {
	in     lineReader
	out    io.Writer
	sched  *conversation.Scheduler
	brand  string
	logger *slog.Logger
}

func newChatSession(ctx context.Context, cfg *config.Config, in lineReader, out io.Writer, logger *slog.Logger) *chatSession {
	sched := conversation.New(
		conversation.WithReplier(conversation.SimulatedReplier{
			Delay: cfg.Chat.ReplyDelay(),
			Text:  cfg.Chat.ReplyText,
		}),
		conversation.WithRevealInterval(cfg.Chat.RevealInterval()),
		conversation.WithReplyTimeout(cfg.Chat.ReplyTimeout()),
		conversation.WithContext(ctx),
		conversation.WithLogger(logger),
	)
	return &chatSession{
		in:     in,
		out:    out,
		sched:  sched,
		brand:  cfg.Chat.BrandName,
		logger: logger,
	}
}

func (s *chatSession) printWelcome() {
	fmt.Fprintln(s.out, TitleStyle.Render(s.brand))
	fmt.Fprintln(s.out, DimStyle.Render("Escribe tu pregunta. /help muestra los comandos, Ctrl+D sale."))
	fmt.Fprintln(s.out)
}

// run is the read-submit-reveal loop. It returns nil on EOF, Ctrl+C at the
// prompt, /quit or a cancelled context.
func (s *chatSession) run(ctx context.Context) error {
	prompt := UserPromptStyle.Render(model.RoleUser.DisplayName() + "> ")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := s.in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		s.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := s.command(input); quit {
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		s.exchange(ctx, input)
	}
}

// exchange submits one question and prints the reply as it is revealed.
func (s *chatSession) exchange(ctx context.Context, text string) {
	accepted, cmd := s.sched.Submit(text)
	if !accepted {
		return
	}

	fmt.Fprint(s.out, AssistantLabelStyle.Render(s.brand+":")+" ")

	var (
		replyID string
		printed int
	)
	for cmd != nil {
		cmd = s.sched.Update(cmd())

		if replyID == "" {
			last, ok := s.lastTurn()
			if !ok || last.IsUser() {
				continue
			}
			if last.IsError {
				fmt.Fprintln(s.out, ErrorStyle.Render(last.Content))
				return
			}
			replyID = last.ID
		}

		prefix := s.sched.RevealedPrefix(replyID)
		fmt.Fprint(s.out, prefix[printed:])
		printed = len(prefix)

		if ctx.Err() != nil {
			break
		}
	}
	fmt.Fprintln(s.out)
}

func (s *chatSession) lastTurn() (model.Turn, bool) {
	turns := s.sched.Transcript()
	if len(turns) == 0 {
		return model.Turn{}, false
	}
	return turns[len(turns)-1], true
}

// command handles a slash command and reports whether to quit.
func (s *chatSession) command(input string) bool {
	name := strings.ToLower(strings.Fields(input)[0])
	switch name {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h":
		fmt.Fprintln(s.out, printKV("/help, /h", "muestra esta ayuda"))
		fmt.Fprintln(s.out, printKV("/history", "muestra la conversación"))
		fmt.Fprintln(s.out, printKV("/quit, /q", "sale del chat"))
	case "/history":
		s.printHistory()
	default:
		fmt.Fprintln(s.out, WarningStyle.Render("Comando desconocido: "+name))
	}
	return false
}

func (s *chatSession) printHistory() {
	turns := s.sched.Transcript()
	if len(turns) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("La conversación está vacía."))
		return
	}
	for i, t := range turns {
		label := fmt.Sprintf("%d. %s", i+1, t.Role.DisplayName())
		content := util.TruncateRunes(strings.ReplaceAll(t.Content, "\n", " "), 60)
		if t.IsError {
			content = ErrorStyle.Render(content)
		}
		fmt.Fprintln(s.out, printKV(label, content))
	}
}
