// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Theme and particle background
//   - ChatConfig: Simulated assistant and reveal timing
//   - AuthConfig: Login gate credentials
//   - LogConfig: Log level, format and destination
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DAVOM_*), including those from .env files
//   - $DAVOM_CONFIG or ~/.davom/config.toml (or config.json)
//   - Built-in defaults
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	delay := cfg.Chat.ReplyDelay()
package config
