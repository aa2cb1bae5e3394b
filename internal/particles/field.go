// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package particles

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrNoDrawingContext is returned when no drawing surface can be acquired.
// Callers treat it as "render nothing", never as a fatal error.
var ErrNoDrawingContext = errors.New("particles: drawing context unavailable")

// Surface is the drawing target of a field.
type Surface interface {
	// Clear erases everything drawn since the last Clear.
	Clear()
	// FillDisc draws a filled disc centered at (x, y).
	FillDisc(x, y, radius float64, c RGBA)
	// Size returns the logical surface size in pixels.
	Size() (w, h float64)
}

// =============================================================================
// FIELD
// =============================================================================

// Field owns a fixed set of particles moving inside a w x h surface.
type Field struct {
	particles []Particle
	width     float64
	height    float64
}

// NewField seeds n particles over a w x h surface using rng.
// A nil rng uses a time-seeded source.
func NewField(w, h float64, n int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if n < 0 {
		n = 0
	}
	return &Field{
		particles: seed(w, h, n, rng),
		width:     w,
		height:    h,
	}
}

// Size returns the surface bounds.
func (f *Field) Size() (w, h float64) {
	return f.width, f.height
}

// Len returns the particle count.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns a copy of the current particle state.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Resize changes the surface bounds. Particle positions are left as they are;
// a particle outside the new bounds is steered back in by Step.
func (f *Field) Resize(w, h float64) {
	f.width = w
	f.height = h
}

// Step advances every particle by its velocity, reflecting at the edges.
func (f *Field) Step() {
	for i := range f.particles {
		p := &f.particles[i]
		p.X, p.VX = reflect(p.X, p.VX, f.width)
		p.Y, p.VY = reflect(p.Y, p.VY, f.height)
	}
}

// reflect advances one axis. A particle crossing an edge is mirrored back
// inside with its velocity negated. A particle already outside keeps its
// position and has its velocity pointed back toward the surface.
func reflect(pos, vel, limit float64) (float64, float64) {
	next := pos + vel
	wasInside := pos >= 0 && pos <= limit

	switch {
	case next < 0 && vel < 0:
		vel = -vel
		if !wasInside {
			return pos, vel
		}
		next = -next
	case next > limit && vel > 0:
		vel = -vel
		if !wasInside {
			return pos, vel
		}
		next = 2*limit - next
	}

	if wasInside {
		next = math.Max(0, math.Min(limit, next))
	}
	return next, vel
}

// =============================================================================
// OPACITY
// =============================================================================

// Falloff returns 1 at the surface center, falling linearly to 0 at the
// corner distance. Points further out are clamped to 0.
func (f *Field) Falloff(x, y float64) float64 {
	cx, cy := f.width/2, f.height/2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return 0
	}
	v := 1 - math.Hypot(x-cx, y-cy)/maxDist
	return clamp01(v)
}

// Shimmer returns the sinusoidal pulse for particle i at time now. The phase
// offset is the particle index so neighbouring particles pulse out of step.
func Shimmer(i int, now time.Time) float64 {
	seconds := float64(now.UnixMilli()) * 0.001
	return math.Sin(seconds + float64(i))
}

// Opacity returns the draw alpha of particle i at time now.
func (f *Field) Opacity(i int, now time.Time, dark bool) float64 {
	if i < 0 || i >= len(f.particles) {
		return 0
	}
	p := f.particles[i]
	return alphaAt(f.Falloff(p.X, p.Y), i, now, PaletteFor(dark))
}

func alphaAt(falloff float64, i int, now time.Time, pal Palette) float64 {
	return clamp01(pal.Base*falloff + pal.Amplitude*Shimmer(i, now))
}

// =============================================================================
// RENDERING
// =============================================================================

// Draw clears s and paints every particle as a disc.
func (f *Field) Draw(s Surface, now time.Time, dark bool) {
	if s == nil {
		return
	}
	s.Clear()
	pal := PaletteFor(dark)
	for i, p := range f.particles {
		c := pal.Color
		c.A = alphaAt(f.Falloff(p.X, p.Y), i, now, pal)
		if c.A <= 0 {
			continue
		}
		s.FillDisc(p.X, p.Y, p.Radius, c)
	}
}

// Frame draws the current state and then advances it by one step.
func (f *Field) Frame(s Surface, now time.Time, dark bool) {
	f.Draw(s, now, dark)
	f.Step()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
