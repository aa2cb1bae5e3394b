// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for davom.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - $DAVOM_CONFIG
//   - ~/.davom/config.toml
//   - ~/.davom/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/davom-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete davom configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	UI   UIConfig   `toml:"ui" json:"ui" yaml:"ui"`
	Chat ChatConfig `toml:"chat" json:"chat" yaml:"chat"`
	Auth AuthConfig `toml:"auth" json:"auth" yaml:"auth"`
	Log  LogConfig  `toml:"log" json:"log" yaml:"log"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light". Auto follows the terminal background.
	Theme string `toml:"theme" json:"theme" yaml:"theme"`

	// Particles enables the animated background.
	Particles bool `toml:"particles" json:"particles" yaml:"particles"`

	// ParticleCount is the number of particles per field (default: 150).
	ParticleCount int `toml:"particle_count" json:"particle_count" yaml:"particle_count"`

	// FPS is the particle frame rate (default: 30).
	FPS int `toml:"fps" json:"fps" yaml:"fps"`

	// Markdown renders finished assistant replies as markdown.
	Markdown bool `toml:"markdown" json:"markdown" yaml:"markdown"`
}

// ChatConfig contains conversation settings.
type ChatConfig struct {
	BrandName   string `toml:"brand_name" json:"brand_name" yaml:"brand_name"`
	Online      bool   `toml:"online" json:"online" yaml:"online"`
	Placeholder string `toml:"placeholder" json:"placeholder" yaml:"placeholder"`

	// ReplyText is the canned answer of the simulated assistant.
	ReplyText string `toml:"reply_text" json:"reply_text" yaml:"reply_text"`

	// ReplyDelayMs is the simulated reply latency (default: 2000).
	ReplyDelayMs int `toml:"reply_delay_ms" json:"reply_delay_ms" yaml:"reply_delay_ms"`

	// RevealIntervalMs is the delay between revealed characters (default: 50).
	RevealIntervalMs int `toml:"reveal_interval_ms" json:"reveal_interval_ms" yaml:"reveal_interval_ms"`

	// ReplyTimeoutSecs bounds one reply exchange (default: 30).
	ReplyTimeoutSecs int `toml:"reply_timeout_secs" json:"reply_timeout_secs" yaml:"reply_timeout_secs"`
}

// AuthConfig contains login gate settings. With an empty PasswordHash any
// non-blank credentials are accepted.
type AuthConfig struct {
	Username     string `toml:"username" json:"username" yaml:"username"`
	PasswordHash string `toml:"password_hash" json:"password_hash" yaml:"password_hash"`
	TOTPSecret   string `toml:"totp_secret" json:"totp_secret" yaml:"totp_secret"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`    // debug, info, warn, error
	Format string `toml:"format" json:"format" yaml:"format"` // text, json
	Output string `toml:"output" json:"output" yaml:"output"` // file, stderr, discard
	File   string `toml:"file" json:"file" yaml:"file"`       // default: ~/.davom/davom.log
}

// ReplyDelay returns the simulated reply latency.
func (c ChatConfig) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMs) * time.Millisecond
}

// RevealInterval returns the reveal cadence.
func (c ChatConfig) RevealInterval() time.Duration {
	return time.Duration(c.RevealIntervalMs) * time.Millisecond
}

// ReplyTimeout returns the reply exchange bound.
func (c ChatConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		UI: UIConfig{
			Theme:         ThemeDark,
			Particles:     true,
			ParticleCount: 150,
			FPS:           30,
			Markdown:      true,
		},
		Chat: ChatConfig{
			BrandName:   "DAVOM IA",
			Online:      true,
			Placeholder: "Escribe tu pregunta...",
			ReplyText: "Esta es una respuesta de ejemplo del asistente IA. " +
				"Puedo proporcionar información sobre diversos temas relacionados con " +
				"la inteligencia artificial y el aprendizaje automático.",
			ReplyDelayMs:     2000,
			RevealIntervalMs: 50,
			ReplyTimeoutSecs: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "file",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the davom configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".davom"), nil
}

// ConfigPath returns the config file in use: $DAVOM_CONFIG when set,
// otherwise ~/.davom/config.toml, or config.json when only that exists.
func ConfigPath() (string, error) {
	if p := os.Getenv("DAVOM_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")
	if !fileExists(tomlPath) && fileExists(jsonPath) {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// DefaultLogFile returns ~/.davom/davom.log.
func DefaultLogFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "davom.log"), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the config directory.
// Variables already present in the environment win. Missing files are fine.
func LoadDotEnv() error {
	var files []string
	if fileExists(".env") {
		files = append(files, ".env")
	}
	if dir, err := ConfigDir(); err == nil {
		if p := filepath.Join(dir, ".env"); fileExists(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load loads configuration from ConfigPath, falling back to defaults when
// the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if !fileExists(path) {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file. Fields the file
// omits keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := decodeJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := decodeTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

func decodeJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path atomically with 0600 permissions. The format
// follows the file extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = encodeTOML(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func encodeTOML(cfg *Config) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# davom configuration file\n")
	sb.WriteString("# Generated by davom - edit with care\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch c.UI.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		add("ui.theme", "must be auto, dark or light, got %q", c.UI.Theme)
	}
	if c.UI.ParticleCount <= 0 {
		add("ui.particle_count", "must be positive, got %d", c.UI.ParticleCount)
	}
	if c.UI.FPS <= 0 || c.UI.FPS > 120 {
		add("ui.fps", "must be between 1 and 120, got %d", c.UI.FPS)
	}

	if c.Chat.ReplyDelayMs < 0 {
		add("chat.reply_delay_ms", "must not be negative, got %d", c.Chat.ReplyDelayMs)
	}
	if c.Chat.RevealIntervalMs <= 0 {
		add("chat.reveal_interval_ms", "must be positive, got %d", c.Chat.RevealIntervalMs)
	}
	if c.Chat.ReplyTimeoutSecs <= 0 {
		add("chat.reply_timeout_secs", "must be positive, got %d", c.Chat.ReplyTimeoutSecs)
	}
	if strings.TrimSpace(c.Chat.ReplyText) == "" {
		add("chat.reply_text", "must not be empty")
	}

	if c.Auth.PasswordHash != "" && !strings.HasPrefix(c.Auth.PasswordHash, "$2") {
		add("auth.password_hash", "must be a bcrypt hash")
	}
	if c.Auth.TOTPSecret != "" && c.Auth.PasswordHash == "" {
		add("auth.totp_secret", "requires auth.password_hash")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format", "must be text or json, got %q", c.Log.Format)
	}
	switch c.Log.Output {
	case "file", "stderr", "discard":
	default:
		add("log.output", "must be file, stderr or discard, got %q", c.Log.Output)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DAVOM_THEME: overrides ui.theme
//   - DAVOM_PARTICLES: overrides ui.particle_count
//   - DAVOM_NO_PARTICLES: set to "1" or "true" to disable the background
//   - DAVOM_REPLY_DELAY: overrides chat.reply_delay_ms ("1500" or "1.5s")
//   - DAVOM_REVEAL_INTERVAL: overrides chat.reveal_interval_ms ("50" or "50ms")
//   - DAVOM_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() error {
	var errs ValidateErrors

	if theme := os.Getenv("DAVOM_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	if count := os.Getenv("DAVOM_PARTICLES"); count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			errs = append(errs, ValidationError{Field: "DAVOM_PARTICLES", Message: err.Error()})
		} else {
			c.UI.ParticleCount = n
		}
	}
	if off := os.Getenv("DAVOM_NO_PARTICLES"); off != "" {
		c.UI.Particles = !parseBool(off)
	}
	if d := os.Getenv("DAVOM_REPLY_DELAY"); d != "" {
		ms, err := parseMillis(d)
		if err != nil {
			errs = append(errs, ValidationError{Field: "DAVOM_REPLY_DELAY", Message: err.Error()})
		} else {
			c.Chat.ReplyDelayMs = ms
		}
	}
	if d := os.Getenv("DAVOM_REVEAL_INTERVAL"); d != "" {
		ms, err := parseMillis(d)
		if err != nil {
			errs = append(errs, ValidationError{Field: "DAVOM_REVEAL_INTERVAL", Message: err.Error()})
		} else {
			c.Chat.RevealIntervalMs = ms
		}
	}
	if level := os.Getenv("DAVOM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// parseMillis accepts a bare millisecond count or a Go duration string.
func parseMillis(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return int(d / time.Millisecond), nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Keys returns all configuration keys in dot notation.
func Keys() []string {
	return []string{
		"version",
		"ui.theme",
		"ui.particles",
		"ui.particle_count",
		"ui.fps",
		"ui.markdown",
		"chat.brand_name",
		"chat.online",
		"chat.placeholder",
		"chat.reply_text",
		"chat.reply_delay_ms",
		"chat.reveal_interval_ms",
		"chat.reply_timeout_secs",
		"auth.username",
		"auth.password_hash",
		"auth.totp_secret",
		"log.level",
		"log.format",
		"log.output",
		"log.file",
	}
}

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a copy of the configuration. Config holds no reference
// fields, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Redacted returns a copy with credential fields masked, for display.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Auth.PasswordHash != "" {
		safe.Auth.PasswordHash = "[REDACTED]"
	}
	if safe.Auth.TOTPSecret != "" {
		safe.Auth.TOTPSecret = "[REDACTED]"
	}
	return safe
}

// String returns a redacted JSON representation for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}
