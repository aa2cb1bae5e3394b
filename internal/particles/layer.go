// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package particles

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

// DefaultFPS is the frame rate of a layer when none is configured.
const DefaultFPS = 30

var lastLayerID int64

// FrameMsg advances a mounted layer by one frame.
type FrameMsg struct {
	Time time.Time
	ID   int
	tag  int
}

// LayerConfig configures a Layer.
type LayerConfig struct {
	Count    int             // particles per mount; DefaultCount when zero
	FPS      int             // frames per second; DefaultFPS when zero
	Disabled bool            // never acquire a canvas
	Seed     int64           // fixed seed for repeatable fields; time-seeded when zero
	Profile  termenv.Profile // colour profile of the output terminal
	Logger   *slog.Logger
}

// =============================================================================
// LAYER
// =============================================================================

// Layer is the Bubble Tea component that owns a field, its canvas and the
// frame clock. It lives from Mount to Teardown; a new Mount seeds a new field.
type Layer struct {
	id  int
	tag int

	count    int
	interval time.Duration
	disabled bool
	profile  termenv.Profile
	rng      *rand.Rand
	logger   *slog.Logger

	dark   bool
	field  *Field
	canvas *Canvas
}

// NewLayer creates an unmounted layer.
func NewLayer(cfg LayerConfig) *Layer {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Layer{
		id:       int(atomic.AddInt64(&lastLayerID, 1)),
		count:    cfg.Count,
		interval: time.Second / time.Duration(cfg.FPS),
		disabled: cfg.Disabled,
		profile:  cfg.Profile,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger.With("component", "particles"),
		dark:     true,
	}
}

// Mount seeds a field over a cols x rows terminal and starts the frame
// chain. When no canvas can be acquired the layer stays inert and Mount
// returns nil. Mounting an already mounted layer replaces its field.
func (l *Layer) Mount(cols, rows int) tea.Cmd {
	l.tag++
	l.field, l.canvas = nil, nil

	if l.disabled {
		return nil
	}
	canvas, err := Acquire(l.profile, cols, rows)
	if err != nil {
		l.logger.Info("particle layer inert", "err", err, "cols", cols, "rows", rows)
		return nil
	}
	canvas.SetDark(l.dark)

	w, h := canvas.Size()
	l.canvas = canvas
	l.field = NewField(w, h, l.count, l.rng)
	l.logger.Debug("particle layer mounted", "particles", l.count, "cols", cols, "rows", rows)
	return l.frame()
}

// Teardown stops the frame chain and releases the field. Frames already in
// flight are ignored when they arrive.
func (l *Layer) Teardown() {
	if l.field != nil {
		l.logger.Debug("particle layer torn down")
	}
	l.tag++
	l.field, l.canvas = nil, nil
}

// Active reports whether the layer is mounted with a canvas.
func (l *Layer) Active() bool {
	return l.field != nil && l.canvas != nil
}

// Field returns the mounted field, or nil.
func (l *Layer) Field() *Field {
	return l.field
}

// Canvas returns the mounted canvas, or nil.
func (l *Layer) Canvas() *Canvas {
	return l.canvas
}

// Interval returns the time between frames.
func (l *Layer) Interval() time.Duration {
	return l.interval
}

// Dark reports the active theme.
func (l *Layer) Dark() bool {
	return l.dark
}

// Resize applies new terminal dimensions. It is a no-op on an inactive layer.
func (l *Layer) Resize(cols, rows int) {
	if !l.Active() {
		return
	}
	l.canvas.Resize(cols, rows)
	l.field.Resize(l.canvas.Size())
}

// SetTheme switches palettes. It takes effect from the next frame.
func (l *Layer) SetTheme(dark bool) {
	l.dark = dark
	if l.canvas != nil {
		l.canvas.SetDark(dark)
	}
}

// Update renders one frame for a matching FrameMsg and schedules the next.
func (l *Layer) Update(msg tea.Msg) tea.Cmd {
	fm, ok := msg.(FrameMsg)
	if !ok || fm.ID != l.id || fm.tag != l.tag || !l.Active() {
		return nil
	}
	l.field.Frame(l.canvas, fm.Time, l.dark)
	return l.frame()
}

// Overlay paints the last frame into the blank space of ui.
func (l *Layer) Overlay(ui string) string {
	if !l.Active() {
		return ui
	}
	return l.canvas.Overlay(ui)
}

// View renders the last frame on its own.
func (l *Layer) View() string {
	if !l.Active() {
		return ""
	}
	return l.canvas.Render()
}

func (l *Layer) frame() tea.Cmd {
	id, tag := l.id, l.tag
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, ID: id, tag: tag}
	})
}
