// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package particles implements the ambient particle-field background.
package particles

import (
	"math"
	"math/rand"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultCount is the number of particles seeded per field.
	DefaultCount = 150

	// MinRadius and MaxRadius bound the particle radius: [MinRadius, MaxRadius).
	MinRadius = 1.0
	MaxRadius = 4.0

	// MaxSpeed bounds each velocity component: [-MaxSpeed, MaxSpeed).
	MaxSpeed = 0.25
)

// =============================================================================
// PARTICLE
// =============================================================================

// Particle is a point with a velocity and a draw radius. Units are logical
// surface pixels; velocity is pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Speed returns the velocity magnitude.
func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Inside reports whether the particle lies within [0,w]x[0,h].
func (p Particle) Inside(w, h float64) bool {
	return p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h
}

// seed generates n particles uniformly distributed over a w x h surface.
func seed(w, h float64, n int, rng *rand.Rand) []Particle {
	out := make([]Particle, n)
	for i := range out {
		out[i] = Particle{
			X:      rng.Float64() * w,
			Y:      rng.Float64() * h,
			Radius: MinRadius + rng.Float64()*(MaxRadius-MinRadius),
			VX:     rng.Float64()*2*MaxSpeed - MaxSpeed,
			VY:     rng.Float64()*2*MaxSpeed - MaxSpeed,
		}
	}
	return out
}

// =============================================================================
// COLOR
// =============================================================================

// RGBA is a straight (non-premultiplied) color with alpha in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Palette maps the theme to particle color and opacity constants.
type Palette struct {
	Color     RGBA
	Base      float64 // alpha at the surface center before shimmer
	Amplitude float64 // shimmer amplitude
}

var (
	// DarkPalette draws light, low-alpha particles.
	DarkPalette = Palette{Color: RGBA{R: 255, G: 255, B: 255}, Base: 0.2, Amplitude: 0.1}

	// LightPalette draws dark, low-alpha particles.
	LightPalette = Palette{Color: RGBA{R: 0, G: 0, B: 0}, Base: 0.15, Amplitude: 0.05}
)

// PaletteFor returns the palette for the active theme.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
