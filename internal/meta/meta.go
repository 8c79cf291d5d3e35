// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta holds the runtime metadata every command action receives.
package meta

import (
	"context"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
)

// Meta contains runtime metadata shared by commands. It carries the CLI
// arguments, the loaded configuration, the context and the shell runner that
// backup and restore passes use.
type Meta struct {
	Args      []string
	Config    config.Type
	Context   context.Context
	Namespace string
	Runner    fsops.Runner
}
