// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jeranaias/davom-tui/internal/particles"
	"github.com/jeranaias/davom-tui/internal/ui/styles"
)

// particlesOptions are the flags of the particles command.
type particlesOptions struct {
	frames int
	fps    int
	count  int
	seed   int64
	width  int
	height int
	theme  string

	// inPlace redraws over the previous frame instead of appending.
	inPlace bool
}

func newParticlesCmd(g *globalOptions) *cobra.Command {
	var opts particlesOptions

	cmd := &cobra.Command{
		Use:   "particles",
		Short: "Render the particle background on its own",
		Long: `Render the particle field to stdout without the rest of the app.

On a terminal the field is redrawn in place until interrupted (or for
--frames frames). When stdout is not a terminal each frame is printed
after the previous one. Sizes default to the terminal size; counts,
frame rate and theme default to the config.`,
		Example: `  davom particles
  davom particles --frames 1 --width 60 --height 15 --seed 7 > frame.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			if opts.fps <= 0 {
				opts.fps = cfg.UI.FPS
			}
			if opts.count <= 0 {
				opts.count = cfg.UI.ParticleCount
			}
			if opts.theme == "" {
				opts.theme = cfg.UI.Theme
			}
			w, h := GetTerminalSize()
			if opts.width <= 0 {
				opts.width = w
			}
			if opts.height <= 0 {
				opts.height = h - 1
			}
			opts.inPlace = IsStdoutTTY()
			return runParticles(cmd.Context(), cmd.OutOrStdout(), GetColorProfile(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "number of frames to draw (0 = until interrupted)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second")
	cmd.Flags().IntVar(&opts.count, "count", 0, "number of particles")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "columns")
	cmd.Flags().IntVar(&opts.height, "height", 0, "rows")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme (auto, dark, light)")
	return cmd
}

// runParticles seeds one field and draws frames paced by a rate limiter.
// It stops after opts.frames frames or when ctx is cancelled.
func runParticles(ctx context.Context, out io.Writer, profile termenv.Profile, opts particlesOptions) error {
	canvas, err := particles.Acquire(profile, opts.width, opts.height)
	if err != nil {
		return fmt.Errorf("cannot draw particles on this output (set FORCE_COLOR to override): %w", err)
	}
	dark := styles.ResolveDark(opts.theme)
	canvas.SetDark(dark)

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, h := canvas.Size()
	field := particles.NewField(w, h, opts.count, rand.New(rand.NewSource(seed)))

	fps := opts.fps
	if fps <= 0 {
		fps = particles.DefaultFPS
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)

	term := termenv.NewOutput(out, termenv.WithProfile(profile))
	if opts.inPlace {
		term.HideCursor()
		term.ClearScreen()
		defer term.ShowCursor()
	}

	for i := 0; opts.frames == 0 || i < opts.frames; i++ {
		if err := limiter.Wait(ctx); err != nil {
			// Interrupted: leave the last frame on screen.
			break
		}
		field.Frame(canvas, time.Now(), dark)

		if opts.inPlace {
			term.MoveCursor(1, 1)
		} else if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, canvas.Render())
	}
	return nil
}
