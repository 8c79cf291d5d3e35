// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
)

// newRunner returns the shell runner handed to commands. Tests replace it.
var newRunner = func() fsops.Runner { return fsops.NewExecRunner() }

// InitApp builds the root command for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg immediately following the binary is the subcommand and also the
	// namespace tried first when reading config values. It could be a flag,
	// so ignore it if it looks like one.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf("no config file: %v", err)
	case err != nil:
		log.WithError(err).Warnf("ignoring config file")
	}
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		Namespace: ns,
		Runner:    newRunner(),
	}

	app := &cli.Command{
		Name:  "macprefs",
		Usage: "back up and restore macOS settings",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "macprefs version info",
				HideDefault: true,
			},
		}, NewGlobalFlags(ns, cfg.Source)...),
		EnableShellCompletion: true,
	}

	app.Commands = append(app.Commands,
		backupCommandBuilder(meta),
		restoreCommandBuilder(meta),
		listCommandBuilder(meta),
		selectCommandBuilder(meta),
		diffCommandBuilder(meta),
		verifyCommandBuilder(meta),
		readmeCommandBuilder(meta),
		pushCommandBuilder(meta),
		pullCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range append([]*cli.Command{app}, app.Commands...) {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
