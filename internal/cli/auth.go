// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/davom-tui/internal/auth"
	"github.com/jeranaias/davom-tui/internal/config"
)

func newAuthCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Set up the login gate",
		Long: `Set up the login gate. Without a password hash in the config any
non-blank username and password are accepted. With one, the password is
checked, and with a TOTP secret a 6-digit code is required too.`,
	}

	cmd.AddCommand(newHashPasswordCmd(g))
	cmd.AddCommand(newTOTPSecretCmd(g))
	return cmd
}

// =============================================================================
// HASH PASSWORD
// =============================================================================

func newHashPasswordCmd(g *globalOptions) *cobra.Command {
	var (
		save     bool
		username string
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for auth.password_hash",
		Long: `Prompt for a password and print its bcrypt hash. With --save the hash
(and --username, when given) is written to the config file. When stdin is
not a terminal the password is read from the first line of stdin.`,
		Example: `  davom auth hash-password --save --username ana
  echo 's3cret' | davom auth hash-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return &CommandError{Command: "auth", Action: "hash-password", Reason: "cannot hash password", Err: err}
			}

			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			}
			return updateConfig(g, func(cfg *config.Config) {
				cfg.Auth.PasswordHash = hash
				if username != "" {
					cfg.Auth.Username = username
				}
			}, cmd.OutOrStdout(), "Password hash saved")
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the hash to the config file")
	cmd.Flags().StringVar(&username, "username", "", "also restrict the login to this username")
	return cmd
}

// readPassword prompts twice without echo on a terminal, or reads one line
// from in otherwise.
func readPassword(in io.Reader) (string, error) {
	if !IsTTY() {
		return readLine(in)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	first, err := line.PasswordPrompt("Contraseña: ")
	if err != nil {
		return "", err
	}
	second, err := line.PasswordPrompt("Repite la contraseña: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", &CommandError{Command: "auth", Action: "hash-password", Reason: "passwords do not match"}
	}
	return first, nil
}

// =============================================================================
// TOTP SECRET
// =============================================================================

func newTOTPSecretCmd(g *globalOptions) *cobra.Command {
	var (
		save    bool
		account string
	)

	cmd := &cobra.Command{
		Use:   "totp-secret",
		Short: "Generate a TOTP secret for the verification code",
		Long: `Generate a TOTP secret and print it with its otpauth:// URL for an
authenticator app. With --save it is written to auth.totp_secret. A code
is only asked for when a password hash is configured as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if account == "" {
				account = currentUser()
			}
			key, err := auth.GenerateTOTP(account)
			if err != nil {
				return &CommandError{Command: "auth", Action: "totp-secret", Reason: "cannot generate secret", Err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, printKV("Secret", key.Secret()))
			fmt.Fprintln(out, printKV("URL", key.URL()))
			if !save {
				return nil
			}
			return updateConfig(g, func(cfg *config.Config) {
				cfg.Auth.TOTPSecret = key.Secret()
			}, out, "TOTP secret saved")
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the secret to the config file")
	cmd.Flags().StringVar(&account, "account", "", "account name shown in the authenticator app (default $USER)")
	return cmd
}

// updateConfig applies edit to the config file and saves it.
func updateConfig(g *globalOptions, edit func(*config.Config), out io.Writer, done string) error {
	path, err := g.resolvePath()
	if err != nil {
		return err
	}
	cfg, err := loadFileOnly(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	edit(cfg)
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := config.Save(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintln(out, SuccessStyle.Render(done)+" "+DimStyle.Render(path))
	return nil
}
