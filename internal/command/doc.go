// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the macprefs CLI. It wires flags, validators,
// actions, and shell completion for the subcommands.
package command
