// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package particles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// =============================================================================
// TERMINAL CANVAS
// =============================================================================

const (
	// CellWidth and CellHeight are the logical pixels covered by one terminal
	// cell. Terminal cells are roughly twice as tall as they are wide.
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Backgrounds the particle colors are blended against.
var (
	DarkBackground  = colorful.Color{R: 17.0 / 255, G: 24.0 / 255, B: 39.0 / 255}    // #111827
	LightBackground = colorful.Color{R: 243.0 / 255, G: 244.0 / 255, B: 246.0 / 255} // #F3F4F6
)

type cell struct {
	glyph rune
	alpha float64
	fg    colorful.Color
}

// Canvas is a Surface backed by a grid of terminal cells. Each particle lands
// in the cell under its center; overlapping particles keep the most opaque.
type Canvas struct {
	cols, rows int
	cells      []cell
	dark       bool
}

// Acquire returns a canvas for a cols x rows terminal. It fails with
// ErrNoDrawingContext when the terminal cannot show color or has no area.
func Acquire(profile termenv.Profile, cols, rows int) (*Canvas, error) {
	if profile == termenv.Ascii || cols <= 0 || rows <= 0 {
		return nil, ErrNoDrawingContext
	}
	return NewCanvas(cols, rows), nil
}

// NewCanvas creates a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{dark: true}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid. The contents are cleared.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols, c.rows = cols, rows
	c.cells = make([]cell, cols*rows)
}

// SetDark selects the background the colors are blended against.
func (c *Canvas) SetDark(dark bool) {
	c.dark = dark
}

// Dimensions returns the grid size in cells.
func (c *Canvas) Dimensions() (cols, rows int) {
	return c.cols, c.rows
}

// Size implements Surface.
func (c *Canvas) Size() (w, h float64) {
	return float64(c.cols) * CellWidth, float64(c.rows) * CellHeight
}

// Clear implements Surface.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{}
	}
}

// FillDisc implements Surface.
func (c *Canvas) FillDisc(x, y, radius float64, col RGBA) {
	if x < 0 || y < 0 || radius <= 0 || col.A <= 0 {
		return
	}
	cx := int(math.Floor(x / CellWidth))
	cy := int(math.Floor(y / CellHeight))
	if cx >= c.cols || cy >= c.rows {
		return
	}

	idx := cy*c.cols + cx
	if c.cells[idx].glyph != 0 && c.cells[idx].alpha >= col.A {
		return
	}
	fg := colorful.Color{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255}
	c.cells[idx] = cell{
		glyph: glyphFor(radius),
		alpha: col.A,
		fg:    c.background().BlendRgb(fg, col.A),
	}
}

// At returns the glyph and alpha drawn at (col, row), or zero values for a
// blank or out-of-range cell.
func (c *Canvas) At(col, row int) (rune, float64) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, 0
	}
	cl := c.cells[row*c.cols+col]
	return cl.glyph, cl.alpha
}

// =============================================================================
// OUTPUT
// =============================================================================

// Row renders row y from column from to the right edge.
func (c *Canvas) Row(y, from int) string {
	return c.segment(y, from, c.cols)
}

// segment renders cells [from, to) of row y; blank cells become spaces so
// the result is exactly to-from columns wide.
func (c *Canvas) segment(y, from, to int) string {
	if to > c.cols {
		to = c.cols
	}
	if from < 0 {
		from = 0
	}
	if y < 0 || y >= c.rows || from >= to {
		return ""
	}

	var sb strings.Builder
	sb.Grow((to - from) * 4)
	blanks := 0
	for x := from; x < to; x++ {
		cl := c.cells[y*c.cols+x]
		if cl.glyph == 0 {
			blanks++
			continue
		}
		if blanks > 0 {
			sb.WriteString(strings.Repeat(" ", blanks))
			blanks = 0
		}
		sb.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(cl.fg.Clamped().Hex())).
			Render(string(cl.glyph)))
	}
	if blanks > 0 {
		sb.WriteString(strings.Repeat(" ", blanks))
	}
	return sb.String()
}

// Render returns the whole canvas, one line per row.
func (c *Canvas) Render() string {
	lines := make([]string, c.rows)
	for y := range lines {
		lines[y] = c.Row(y, 0)
	}
	return strings.Join(lines, "\n")
}

// Overlay paints the canvas into the blank space of ui: unstyled leading
// and trailing spaces of every ui line are replaced by canvas cells, and
// rows below the last ui line are filled entirely.
func (c *Canvas) Overlay(ui string) string {
	lines := strings.Split(ui, "\n")
	for y := 0; y < c.rows; y++ {
		if y >= len(lines) {
			lines = append(lines, c.Row(y, 0))
			continue
		}
		line := strings.TrimRight(lines[y], " ")
		w := lipgloss.Width(line)
		if lead := min(len(line)-len(strings.TrimLeft(line, " ")), c.cols); lead > 0 {
			line = c.segment(y, 0, lead) + line[lead:]
		}
		if w < c.cols {
			line += c.Row(y, w)
		}
		lines[y] = line
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) background() colorful.Color {
	if c.dark {
		return DarkBackground
	}
	return LightBackground
}

func glyphFor(radius float64) rune {
	switch {
	case radius < 2:
		return '.'
	case radius < 3:
		return '+'
	default:
		return 'o'
	}
}
