// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package particles

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayer(cfg LayerConfig) *Layer {
	if cfg.Seed == 0 {
		cfg.Seed = 7
	}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLayer(cfg)
}

func frameFor(l *Layer) FrameMsg {
	return FrameMsg{Time: time.UnixMilli(0), ID: l.id, tag: l.tag}
}

func TestLayerDefaults(t *testing.T) {
	l := newTestLayer(LayerConfig{})
	assert.Equal(t, time.Second/DefaultFPS, l.Interval())
	assert.False(t, l.Active())
	assert.True(t, l.Dark())
	assert.Equal(t, "ui", l.Overlay("ui"))
	assert.Equal(t, "", l.View())
}

func TestLayerMountSeedsField(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 25})
	cmd := l.Mount(40, 10)
	require.NotNil(t, cmd)
	require.True(t, l.Active())

	f := l.Field()
	assert.Equal(t, 25, f.Len())
	w, h := f.Size()
	assert.Equal(t, 40*CellWidth, w)
	assert.Equal(t, 10*CellHeight, h)
}

func TestLayerFrameDrawsAndRearms(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 10})
	l.Mount(20, 5)
	before := l.Field().Particles()

	cmd := l.Update(frameFor(l))
	require.NotNil(t, cmd, "frame chain must continue")

	after := l.Field().Particles()
	moved := false
	for i := range before {
		if before[i].X != after[i].X || before[i].Y != after[i].Y {
			moved = true
		}
	}
	assert.True(t, moved, "a frame must step the field")
}

func TestLayerIgnoresForeignMessages(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 5})
	other := newTestLayer(LayerConfig{Count: 5})
	l.Mount(10, 4)
	other.Mount(10, 4)

	before := l.Field().Particles()
	assert.Nil(t, l.Update(frameFor(other)))
	assert.Nil(t, l.Update(tea.KeyMsg{}))
	assert.Equal(t, before, l.Field().Particles())
}

func TestLayerTeardownStopsFrames(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 5})
	l.Mount(10, 4)
	pending := frameFor(l)

	l.Teardown()
	assert.False(t, l.Active())
	assert.Nil(t, l.Field())
	assert.Nil(t, l.Update(pending), "frame armed before teardown must be ignored")

	// Resize after teardown is a no-op.
	assert.NotPanics(t, func() { l.Resize(100, 100) })
	assert.False(t, l.Active())
}

func TestLayerRemountReseeds(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 5})
	l.Mount(10, 4)
	first := l.Field().Particles()
	stale := frameFor(l)

	l.Teardown()
	require.NotNil(t, l.Mount(10, 4))
	second := l.Field().Particles()

	assert.NotEqual(t, first, second, "a new mount seeds a new field")
	assert.Nil(t, l.Update(stale))
}

func TestLayerInertWithoutDrawingContext(t *testing.T) {
	l := newTestLayer(LayerConfig{Profile: termenv.Ascii})
	assert.Nil(t, l.Mount(80, 24))
	assert.False(t, l.Active())
	assert.Equal(t, "chat", l.Overlay("chat"))
	assert.Nil(t, l.Update(frameFor(l)))

	zero := newTestLayer(LayerConfig{})
	assert.Nil(t, zero.Mount(0, 0))
	assert.False(t, zero.Active())
}

func TestLayerDisabled(t *testing.T) {
	l := newTestLayer(LayerConfig{Disabled: true})
	assert.Nil(t, l.Mount(80, 24))
	assert.False(t, l.Active())
}

func TestLayerResizeKeepsParticles(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 30})
	l.Mount(50, 20)
	before := l.Field().Particles()

	l.Resize(10, 5)
	w, h := l.Field().Size()
	assert.Equal(t, 10*CellWidth, w)
	assert.Equal(t, 5*CellHeight, h)
	assert.Equal(t, before, l.Field().Particles())

	cols, rows := l.Canvas().Dimensions()
	assert.Equal(t, 10, cols)
	assert.Equal(t, 5, rows)
}

func TestLayerSetTheme(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 5})
	l.SetTheme(false)
	l.Mount(10, 4)
	assert.False(t, l.Dark())
	assert.False(t, l.Canvas().dark, "theme chosen before mount carries over")

	l.SetTheme(true)
	assert.True(t, l.Canvas().dark)
}

func TestLayerOverlayAfterFrame(t *testing.T) {
	l := newTestLayer(LayerConfig{Count: 60})
	l.Mount(30, 6)
	l.Update(frameFor(l))

	out := l.Overlay("DAVOM IA")
	assert.Contains(t, out, "DAVOM IA")
	assert.NotEmpty(t, l.View())
}
