// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/filters"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/output"
	"github.com/clintmod/macprefs/internal/resource"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// settingsFromCommand resolves config.Settings from the global flags. Flag
// values already include the env and config file sources.
func settingsFromCommand(cmd *cli.Command) (config.Settings, error) {
	return config.ResolveSettings(config.Settings{
		BackupDir: cmd.String("backup-dir"),
		User:      cmd.String("user"),
		DryRun:    cmd.Bool("dry-run"),
		Strict:    cmd.Bool("strict"),
	})
}

// newEnv builds the backup/restore environment around the command's runner.
func newEnv(cmd *cli.Command, s config.Settings) *resource.Env {
	r := GetMeta(cmd).Runner
	if r == nil {
		r = fsops.NewExecRunner()
	}
	return resource.NewEnv(s, r)
}

// modulesFromArgs returns the modules named on the command line, or all of
// them.
func modulesFromArgs(cmd *cli.Command) ([]resource.Module, error) {
	return apps.Lookup(apps.All(), cmd.Args().Slice()...)
}

// outputOptions collects the rendering flags.
func outputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format:  cmd.String("output"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Sort:    cmd.String("sort"),
		Padding: 2, //nolint:mnd
	}
}

// emit filters rows with --filter and renders them with the output flags.
func emit(cmd *cli.Command, rows []map[string]interface{}, cols []output.Column, opts output.Options) error {
	rows = filters.Apply(rows, filters.BuildFilters(cmd.String("filter")))
	return output.Emit(writer(cmd), rows, cols, opts)
}

// writer is where command results go.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// finish logs the outcome of a pass. Module failures only fail the command
// with --strict.
func finish(s config.Settings, report resource.Report) error {
	copied, skipped := 0, 0
	for _, r := range report.Results {
		copied += r.Copied
		skipped += r.Skipped
	}
	failed := report.Failed()

	log.Infof("%s complete: %d modules, %d copied, %d skipped, %d failed",
		report.Direction, len(report.Results), copied, skipped, len(failed))
	for _, r := range failed {
		log.WithError(r.Err).Warnf("%s", r.Module)
	}

	if s.Strict && len(failed) > 0 {
		return fmt.Errorf("%s failed: %w", report.Direction, report.Err())
	}
	return nil
}
