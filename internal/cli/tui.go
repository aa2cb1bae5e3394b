// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/davom-tui/internal/config"
	"github.com/jeranaias/davom-tui/internal/logging"
	"github.com/jeranaias/davom-tui/internal/ui/app"
)

// tuiOptions are the flags of the tui command.
type tuiOptions struct {
	theme       string
	noParticles bool
	noWatch     bool
}

func newTUICmd(g *globalOptions) *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen app (default)",
		Long: `Start the full-screen app: the login gate, then the chat screen.

Keys: enter sends, ctrl+y copies the last reply, ctrl+t toggles the theme,
ctrl+l signs out, ctrl+c quits. Edits to the config file are applied while
the app is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme override (auto, dark, light)")
	cmd.Flags().BoolVar(&opts.noParticles, "no-particles", false, "disable the particle background")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the config file on change")
	return cmd
}

// apply writes the command-line overrides into cfg. It runs on the loaded
// config and again on every reload, so a file edit never undoes a flag.
func (o tuiOptions) apply(cfg *config.Config) {
	if o.theme != "" {
		cfg.UI.Theme = o.theme
	}
	if o.noParticles {
		cfg.UI.Particles = false
	}
}

func runTUI(cmd *cobra.Command, g *globalOptions, opts tuiOptions) error {
	if err := RequiresTTY("run the full-screen app"); err != nil {
		return err
	}
	if !IsStdoutTTY() {
		return &TTYRequiredError{Operation: "run the full-screen app"}
	}

	cfg, path, err := g.load()
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	defer closer.Close()

	watcher := startWatcher(path, opts.noWatch, logger)
	if watcher != nil {
		defer watcher.Close()
	}

	logger.Info("starting", "version", Version, "config", path, "theme", cfg.UI.Theme)

	m := app.New(app.Options{
		Config:    cfg,
		Watcher:   watcher,
		Overrides: opts.apply,
		Profile:   GetColorProfile(),
		Logger:    logger,
	})
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("app exited: %w", err)
	}
	logger.Info("stopped")
	return nil
}

// startWatcher watches an existing config file. Failure to watch is logged
// and the app runs without reloads.
func startWatcher(path string, disabled bool, logger *slog.Logger) *config.Watcher {
	if disabled {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := config.NewWatcher(path, 0)
	if err != nil {
		logger.Warn("config watch unavailable", "path", path, "err", err)
		return nil
	}
	return w
}
