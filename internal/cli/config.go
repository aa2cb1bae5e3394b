// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/davom-tui/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the configuration",
	}

	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))
	cmd.AddCommand(newConfigGetCmd(g))
	cmd.AddCommand(newConfigSetCmd(g))
	cmd.AddCommand(newConfigKeysCmd())
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration: the file merged over the defaults,
with environment overrides applied. Credentials are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg.Redacted(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format (toml, json, yaml)")
	return cmd
}

// writeConfig encodes cfg in the given format.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "toml", "":
		return toml.NewEncoder(w).Encode(cfg)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return &CommandError{Command: "config", Action: "show", Reason: "unknown format " + format}
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := g.resolvePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &CommandError{Command: "config", Action: "init", Reason: path + " already exists (use --force to overwrite)"}
			}
			if err := config.Save(config.Default(), path); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Config written to ")+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigPathCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := g.resolvePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigGetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting (e.g. ui.theme)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			v, err := cfg.Redacted().Get(args[0])
			if err != nil {
				return &CommandError{Command: "config", Action: "get", Reason: "unknown key", Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting in the config file",
		Long: `Change one setting in the config file. The file is created when it does
not exist. Values are validated before anything is written; a running app
picks the change up automatically.`,
		Example: `  davom config set ui.theme light
  davom config set chat.reveal_interval_ms 30`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.resolvePath()
			if err != nil {
				return err
			}
			cfg, err := loadFileOnly(path)
			if err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return &CommandError{Command: "config", Action: "set", Reason: "cannot set " + args[0], Err: err}
			}
			if err := cfg.Validate(); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			if err := config.Save(cfg, path); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Set ")+args[0])
			return nil
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every config key",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			var buf bytes.Buffer
			for _, k := range config.Keys() {
				buf.WriteString(k)
				buf.WriteByte('\n')
			}
			cmd.OutOrStdout().Write(buf.Bytes())
		},
	}
}

// loadFileOnly reads path without environment overrides so that a write
// does not persist values that came from the environment.
func loadFileOnly(path string) (*config.Config, error) {
	cfg := config.Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if isJSON(path) {
		err = json.Unmarshal(data, cfg)
	} else {
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
