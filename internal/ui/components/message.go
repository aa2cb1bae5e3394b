// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/davom-tui/internal/model"
	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer turns transcript turns into chat bubbles. User turns are
// right-aligned, assistant turns left-aligned. Finished assistant turns are
// rendered as markdown when enabled; turns still being revealed are shown
// as plain wrapped text so the prefix never reflows mid-word into markup.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown bool

	md    *glamour.TermRenderer
	mdKey string

	// Rendered markdown by turn ID; turns never change once appended.
	cache map[string]string
}

// NewMessageRenderer creates a renderer for the given theme.
func NewMessageRenderer(theme *styles.Theme, markdown bool) *MessageRenderer {
	return &MessageRenderer{
		theme:    theme,
		width:    80,
		markdown: markdown,
		cache:    make(map[string]string),
	}
}

// SetWidth updates the width available to the transcript.
func (r *MessageRenderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.invalidate()
}

// SetMarkdown turns markdown rendering on or off.
func (r *MessageRenderer) SetMarkdown(on bool) {
	if on == r.markdown {
		return
	}
	r.markdown = on
	r.invalidate()
}

// Invalidate drops cached markdown, e.g. after a theme change.
func (r *MessageRenderer) Invalidate() {
	r.invalidate()
}

func (r *MessageRenderer) invalidate() {
	r.cache = make(map[string]string)
}

// Render draws one turn. content is what should be visible right now (the
// revealed prefix for a turn being revealed) and revealing says whether more
// is coming.
func (r *MessageRenderer) Render(turn model.Turn, content string, revealing bool) string {
	bubbleWidth := r.bubbleWidth()
	textWidth := bubbleWidth - r.theme.UserBubble.GetHorizontalFrameSize()

	var bubble string
	switch {
	case turn.IsUser():
		bubble = r.theme.UserBubble.Render(wordWrap(content, textWidth))
	case turn.IsError:
		bubble = r.theme.ErrorBubble.Render(wordWrap(styles.StatusIndicators.Error+" "+content, textWidth))
	case !revealing && r.markdown:
		bubble = r.theme.AssistantBubble.Render(r.renderMarkdown(turn, content, textWidth))
	default:
		body := content
		if revealing {
			body += "▌"
		}
		bubble = r.theme.AssistantBubble.Render(wordWrap(body, textWidth))
	}

	label := turn.Role.DisplayName()
	if ts := formatTime(turn.CreatedAt); ts != "" {
		label += " " + ts
	}
	label = r.theme.Timestamp.Render(label)

	if turn.IsUser() {
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// RenderAll draws a whole transcript with a blank line between bubbles.
// prefix returns the visible content of a turn and whether it is still
// being revealed.
func (r *MessageRenderer) RenderAll(turns []model.Turn, prefix func(model.Turn) (string, bool)) string {
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		content, revealing := prefix(t)
		blocks = append(blocks, r.Render(t, content, revealing))
	}
	return strings.Join(blocks, "\n\n")
}

func (r *MessageRenderer) bubbleWidth() int {
	if r.theme.Width != r.width {
		r.theme.SetSize(r.width, r.theme.Height)
	}
	return r.theme.BubbleWidth()
}

// renderMarkdown renders finished assistant content through glamour and
// falls back to wrapped plain text if the renderer fails.
func (r *MessageRenderer) renderMarkdown(turn model.Turn, content string, width int) string {
	if out, ok := r.cache[turn.ID]; ok {
		return out
	}

	md, err := r.renderer(width)
	if err != nil {
		return wordWrap(content, width)
	}
	out, err := md.Render(content)
	if err != nil {
		return wordWrap(content, width)
	}
	out = strings.Trim(out, "\n")
	r.cache[turn.ID] = out
	return out
}

func (r *MessageRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	style := "light"
	if r.theme.IsDark {
		style = "dark"
	}
	key := fmt.Sprintf("%s/%d", style, width)
	if r.md != nil && r.mdKey == key {
		return r.md, nil
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.md, r.mdKey = md, key
	return md, nil
}
