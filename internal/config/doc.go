// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for macprefs' user
// configuration, and the Settings struct the orchestration layer runs with.
// The configuration is an optional YAML document, located via the
// MACPREFS_CFG_FILE environment variable or in the user's configuration
// directory, typically:
//   - macOS: $HOME/Library/Application Support/macprefs.yaml
//   - Linux: $XDG_CONFIG_HOME/macprefs.yaml or $HOME/.config/macprefs.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions.
package config
