// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/davom-tui/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the davom command tree. Running it without a
// subcommand starts the full-screen app.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "davom",
		Short: "DAVOM IA - terminal chat with a particle background",
		Long: `davom is a terminal chat demo. It opens on a login gate, then shows a
chat transcript where assistant replies are revealed one character at a
time over an animated particle field.

Configuration lives in ~/.davom/config.toml (override with --config or
DAVOM_CONFIG). Logs go to ~/.davom/davom.log by default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts, tuiOptions{})
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default ~/.davom/config.toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newChatCmd(opts))
	root.AddCommand(newParticlesCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newAuthCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line and returns the process exit code.
// SIGINT and SIGTERM cancel the command's context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
	}
	return ExitCode(err)
}

// =============================================================================
// CONFIG LOADING
// =============================================================================

// resolvePath returns the config file the command works on.
func (o *globalOptions) resolvePath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}

// load reads .env files and the config, then applies --log-level. A missing
// file yields the defaults.
func (o *globalOptions) load() (*config.Config, string, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, "", &ConfigError{Err: err}
	}
	path, err := o.resolvePath()
	if err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	if _, statErr := os.Stat(path); statErr == nil {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = defaultsWithEnv()
	}
	if err != nil {
		return nil, path, &ConfigError{Path: path, Err: err}
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, path, &ConfigError{Path: path, Err: err}
		}
	}
	return cfg, path, nil
}

func defaultsWithEnv() (*config.Config, error) {
	cfg := config.Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
