// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login gate in front of the chat screen.
//
// With no password hash configured the gate accepts any non-blank username
// and password. With a bcrypt hash configured the password must match, and
// with a TOTP secret configured a current 6-digit code is required as well.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/davom-tui/internal/config"
)

// Issuer is the TOTP issuer shown by authenticator apps.
const Issuer = "DAVOM IA"

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidCode        = errors.New("invalid verification code")
)

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// =============================================================================
// GATE
// =============================================================================

// Gate checks login attempts against the configured credentials.
type Gate struct {
	username     string
	passwordHash []byte
	totpSecret   string
	now          func() time.Time
}

// NewGate creates a gate from the auth section of the config.
func NewGate(cfg config.AuthConfig) *Gate {
	g := &Gate{
		username:   normalizeUsername(cfg.Username),
		totpSecret: cfg.TOTPSecret,
		now:        time.Now,
	}
	if cfg.PasswordHash != "" {
		g.passwordHash = []byte(cfg.PasswordHash)
	}
	return g
}

// Open reports whether any non-blank credentials are accepted.
func (g *Gate) Open() bool {
	return len(g.passwordHash) == 0
}

// RequiresCode reports whether a TOTP code is part of the login.
func (g *Gate) RequiresCode() bool {
	return !g.Open() && g.totpSecret != ""
}

// Authenticate checks one login attempt. code is ignored unless
// RequiresCode is true.
func (g *Gate) Authenticate(username, password, code string) error {
	username = normalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	if g.Open() {
		return nil
	}

	if g.username != "" && username != g.username {
		// Spend the same time as a real check so the two failures look alike.
		_ = bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if g.RequiresCode() {
		ok, err := totp.ValidateCustom(strings.TrimSpace(code), g.totpSecret, g.now().UTC(), totpOpts)
		if err != nil || !ok {
			return ErrInvalidCode
		}
	}
	return nil
}

// normalizeUsername trims the name and composes it, so "José" matches
// whether the terminal sent é precomposed or as e plus an accent.
func normalizeUsername(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// =============================================================================
// ENROLMENT HELPERS
// =============================================================================

// HashPassword returns the bcrypt hash stored in auth.password_hash.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrMissingCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateTOTP creates a new TOTP key for account. The key's Secret goes in
// auth.totp_secret and its URL can be shown as a QR code.
func GenerateTOTP(account string) (*otp.Key, error) {
	if strings.TrimSpace(account) == "" {
		account = "davom"
	}
	return totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
}
