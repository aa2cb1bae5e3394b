// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/davom-tui/internal/config"
)

// cheapHash keeps the tests fast; production hashes use DefaultCost.
func cheapHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestOpenGateAcceptsAnyNonBlank(t *testing.T) {
	g := NewGate(config.AuthConfig{})
	assert.True(t, g.Open())
	assert.False(t, g.RequiresCode())

	assert.NoError(t, g.Authenticate("ana", "x", ""))
	assert.ErrorIs(t, g.Authenticate("", "x", ""), ErrMissingCredentials)
	assert.ErrorIs(t, g.Authenticate("ana", "   ", ""), ErrMissingCredentials)
}

func TestPasswordGate(t *testing.T) {
	g := NewGate(config.AuthConfig{Username: "ana", PasswordHash: cheapHash(t, "s3creta")})
	assert.False(t, g.Open())

	assert.NoError(t, g.Authenticate("ana", "s3creta", ""))
	assert.NoError(t, g.Authenticate("  ana ", "s3creta", ""), "username is trimmed")
	assert.ErrorIs(t, g.Authenticate("ana", "wrong", ""), ErrInvalidCredentials)
	assert.ErrorIs(t, g.Authenticate("bob", "s3creta", ""), ErrInvalidCredentials)
}

func TestPasswordGateAnyUser(t *testing.T) {
	g := NewGate(config.AuthConfig{PasswordHash: cheapHash(t, "clave")})
	assert.NoError(t, g.Authenticate("cualquiera", "clave", ""))
}

func TestPasswordGateComposesUsername(t *testing.T) {
	g := NewGate(config.AuthConfig{Username: "Jos\u00e9", PasswordHash: cheapHash(t, "clave")})
	assert.NoError(t, g.Authenticate("Jose\u0301", "clave", ""))
	assert.NoError(t, g.Authenticate(" Jos\u00e9 ", "clave", ""))
	assert.ErrorIs(t, g.Authenticate("Jose", "clave", ""), ErrInvalidCredentials)
}

func TestTOTPGate(t *testing.T) {
	key, err := GenerateTOTP("ana")
	require.NoError(t, err)
	assert.Equal(t, Issuer, key.Issuer())

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(config.AuthConfig{PasswordHash: cheapHash(t, "clave"), TOTPSecret: key.Secret()})
	g.now = func() time.Time { return now }
	require.True(t, g.RequiresCode())

	code, err := totp.GenerateCode(key.Secret(), now)
	require.NoError(t, err)

	assert.NoError(t, g.Authenticate("ana", "clave", code))
	assert.ErrorIs(t, g.Authenticate("ana", "clave", ""), ErrInvalidCode)
	assert.ErrorIs(t, g.Authenticate("ana", "clave", "000000x"), ErrInvalidCode)
	assert.ErrorIs(t, g.Authenticate("ana", "mala", code), ErrInvalidCredentials,
		"password is checked before the code")

	stale, err := totp.GenerateCode(key.Secret(), now.Add(-5*time.Minute))
	require.NoError(t, err)
	if stale != code {
		assert.ErrorIs(t, g.Authenticate("ana", "clave", stale), ErrInvalidCode)
	}
}

func TestTOTPIgnoredOnOpenGate(t *testing.T) {
	g := NewGate(config.AuthConfig{TOTPSecret: "JBSWY3DPEHPK3PXP"})
	assert.False(t, g.RequiresCode())
	assert.NoError(t, g.Authenticate("ana", "x", ""))
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("clave")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("clave")))

	_, err = HashPassword(" ")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGenerateTOTPDefaultAccount(t *testing.T) {
	key, err := GenerateTOTP("")
	require.NoError(t, err)
	assert.Equal(t, "davom", key.AccountName())
	assert.NotEmpty(t, key.Secret())
}
