// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package particles

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// recorder is a Surface that keeps every disc drawn since the last Clear.
type recorder struct {
	w, h   float64
	clears int
	discs  []disc
}

type disc struct {
	x, y, r float64
	c       RGBA
}

func (r *recorder) Clear() {
	r.clears++
	r.discs = r.discs[:0]
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }

func (r *recorder) FillDisc(x, y, radius float64, c RGBA) {
	r.discs = append(r.discs, disc{x: x, y: y, r: radius, c: c})
}

func TestNewFieldSeedsWithinRanges(t *testing.T) {
	f := NewField(800, 600, DefaultCount, fixedRand())
	require.Equal(t, DefaultCount, f.Len())

	for i, p := range f.Particles() {
		assert.True(t, p.Inside(800, 600), "particle %d seeded outside: %+v", i, p)
		assert.GreaterOrEqual(t, p.Radius, MinRadius)
		assert.Less(t, p.Radius, MaxRadius)
		assert.GreaterOrEqual(t, p.VX, -MaxSpeed)
		assert.Less(t, p.VX, MaxSpeed)
		assert.GreaterOrEqual(t, p.VY, -MaxSpeed)
		assert.Less(t, p.VY, MaxSpeed)
	}
}

func TestNewFieldNegativeCount(t *testing.T) {
	f := NewField(100, 100, -3, fixedRand())
	assert.Equal(t, 0, f.Len())
	f.Step()
}

func TestParticlesReturnsCopy(t *testing.T) {
	f := NewField(100, 100, 3, fixedRand())
	ps := f.Particles()
	ps[0].X = -1000
	assert.NotEqual(t, -1000.0, f.Particles()[0].X)
}

func TestStepKeepsParticlesInBounds(t *testing.T) {
	f := NewField(40, 30, 200, fixedRand())
	for step := 0; step < 2000; step++ {
		f.Step()
		for i, p := range f.Particles() {
			if !p.Inside(40, 30) {
				t.Fatalf("step %d: particle %d escaped: %+v", step, i, p)
			}
		}
	}
}

func TestStepPreservesSpeed(t *testing.T) {
	f := NewField(20, 20, 50, fixedRand())
	before := f.Particles()
	for step := 0; step < 500; step++ {
		f.Step()
	}
	for i, p := range f.Particles() {
		assert.InDelta(t, before[i].Speed(), p.Speed(), 1e-12, "particle %d", i)
		assert.Equal(t, before[i].Radius, p.Radius)
	}
}

func TestReflectAtEdges(t *testing.T) {
	tests := []struct {
		name            string
		pos, vel, limit float64
		wantPos         float64
		wantVel         float64
	}{
		{"interior move", 5, 0.2, 10, 5.2, 0.2},
		{"cross low edge", 0.1, -0.25, 10, 0.15, 0.25},
		{"cross high edge", 9.9, 0.25, 10, 9.85, -0.25},
		{"land exactly on edge", 9.75, 0.25, 10, 10, 0.25},
		{"outside high moving out", 15, 0.2, 10, 15, -0.2},
		{"outside high moving in", 15, -0.2, 10, 14.8, -0.2},
		{"outside low moving out", -3, -0.1, 10, -3, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := reflect(tt.pos, tt.vel, tt.limit)
			assert.InDelta(t, tt.wantPos, pos, 1e-9)
			assert.InDelta(t, tt.wantVel, vel, 1e-9)
		})
	}
}

func TestResizeDoesNotTeleport(t *testing.T) {
	f := NewField(1000, 1000, 100, fixedRand())
	before := f.Particles()

	f.Resize(100, 100)
	w, h := f.Size()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 100.0, h)

	after := f.Particles()
	assert.Equal(t, before, after, "resize must not move particles")

	// Out-of-bounds particles move at most one velocity step per frame.
	f.Step()
	for i, p := range f.Particles() {
		dx := math.Abs(p.X - before[i].X)
		dy := math.Abs(p.Y - before[i].Y)
		assert.LessOrEqual(t, dx, MaxSpeed+1e-9, "particle %d jumped in x", i)
		assert.LessOrEqual(t, dy, MaxSpeed+1e-9, "particle %d jumped in y", i)
	}
}

func TestOutsideParticlesDriftBack(t *testing.T) {
	f := &Field{
		particles: []Particle{{X: 60, Y: 5, VX: 0.25, VY: 0, Radius: 1}},
		width:     50,
		height:    10,
	}
	for i := 0; i < 100 && !f.Particles()[0].Inside(50, 10); i++ {
		f.Step()
	}
	p := f.Particles()[0]
	assert.True(t, p.Inside(50, 10), "particle never returned: %+v", p)
	assert.InDelta(t, 0.25, p.Speed(), 1e-12)
}

func TestFalloff(t *testing.T) {
	f := NewField(200, 100, 0, fixedRand())

	assert.InDelta(t, 1.0, f.Falloff(100, 50), 1e-9, "center")
	assert.InDelta(t, 0.0, f.Falloff(0, 0), 1e-9, "corner")
	assert.Equal(t, 0.0, f.Falloff(-500, -500), "clamped beyond corner")

	// Monotonically non-increasing along a ray from the center.
	prev := 2.0
	for d := 0.0; d <= 150; d += 5 {
		v := f.Falloff(100+d, 50+d/2)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestFalloffZeroSurface(t *testing.T) {
	f := NewField(0, 0, 0, fixedRand())
	assert.Equal(t, 0.0, f.Falloff(0, 0))
}

func TestOpacityUsesPalette(t *testing.T) {
	f := &Field{
		particles: []Particle{{X: 50, Y: 50, Radius: 2}},
		width:     100,
		height:    100,
	}
	// sin(0 + 0) == 0, so only the base term remains.
	now := time.UnixMilli(0)
	assert.InDelta(t, DarkPalette.Base, f.Opacity(0, now, true), 1e-9)
	assert.InDelta(t, LightPalette.Base, f.Opacity(0, now, false), 1e-9)
	assert.Equal(t, 0.0, f.Opacity(5, now, true), "out of range index")
}

func TestOpacityStaysInUnitRange(t *testing.T) {
	f := NewField(300, 200, 80, fixedRand())
	for ms := int64(0); ms < 7000; ms += 250 {
		now := time.UnixMilli(ms)
		for i := 0; i < f.Len(); i++ {
			for _, dark := range []bool{true, false} {
				a := f.Opacity(i, now, dark)
				assert.GreaterOrEqual(t, a, 0.0)
				assert.LessOrEqual(t, a, 1.0)
			}
		}
	}
}

func TestShimmerPhaseOffset(t *testing.T) {
	now := time.UnixMilli(0)
	assert.InDelta(t, 0.0, Shimmer(0, now), 1e-12)
	assert.InDelta(t, math.Sin(1), Shimmer(1, now), 1e-12)
	assert.InDelta(t, math.Sin(1.5), Shimmer(0, time.UnixMilli(1500)), 1e-12)
}

func TestDrawClearsAndPaints(t *testing.T) {
	f := &Field{
		particles: []Particle{
			{X: 50, Y: 50, Radius: 2},
			{X: 0, Y: 0, Radius: 3},
		},
		width:  100,
		height: 100,
	}
	rec := &recorder{w: 100, h: 100}
	rec.discs = append(rec.discs, disc{})

	// At t=0 the corner particle has alpha clamp(0 + 0.1*sin(1)) > 0.
	f.Draw(rec, time.UnixMilli(0), true)
	assert.Equal(t, 1, rec.clears)
	require.Len(t, rec.discs, 2)
	assert.Equal(t, uint8(255), rec.discs[0].c.R)
	assert.InDelta(t, 0.2, rec.discs[0].c.A, 1e-9)
	assert.Equal(t, 2.0, rec.discs[0].r)
}

func TestDrawSkipsInvisibleParticles(t *testing.T) {
	f := &Field{
		particles: []Particle{{X: 0, Y: 0, Radius: 2}},
		width:     100,
		height:    100,
	}
	rec := &recorder{w: 100, h: 100}
	// Index 0 at t=0 has falloff 0 and shimmer 0.
	f.Draw(rec, time.UnixMilli(0), false)
	assert.Empty(t, rec.discs)
}

func TestDrawNilSurface(t *testing.T) {
	f := NewField(10, 10, 5, fixedRand())
	assert.NotPanics(t, func() { f.Draw(nil, time.Now(), true) })
}

func TestFrameDrawsBeforeStepping(t *testing.T) {
	f := &Field{
		particles: []Particle{{X: 50, Y: 50, VX: 0.2, VY: 0.1, Radius: 2}},
		width:     100,
		height:    100,
	}
	rec := &recorder{w: 100, h: 100}
	f.Frame(rec, time.UnixMilli(0), true)

	require.Len(t, rec.discs, 1)
	assert.Equal(t, 50.0, rec.discs[0].x)
	assert.Equal(t, 50.0, rec.discs[0].y)
	assert.InDelta(t, 50.2, f.Particles()[0].X, 1e-9)
	assert.InDelta(t, 50.1, f.Particles()[0].Y, 1e-9)
}
