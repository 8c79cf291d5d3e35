// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/picker"
	"github.com/clintmod/macprefs/internal/resource"
)

// pick and isTerminal drive the interactive picker. Tests replace them.
var (
	pick       = picker.Pick
	isTerminal = picker.Interactive
)

// restoreCommandAction restores the named modules, all of them, or the ones
// picked interactively.
func restoreCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "restore"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}
	if !fsops.IsDir(s.BackupDir) {
		return fmt.Errorf("backup directory %s does not exist; set --backup-dir or MACPREFS_BACKUP_DIR", s.BackupDir)
	}

	modules, err := modulesFromArgs(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("interactive") {
		modules, err = pickModules(s, modules)
		if errors.Is(err, picker.ErrAborted) {
			log.Infof("Restore cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	log.Infof("Restoring from %s", s.BackupDir)
	report, err := resource.Run(ctx, newEnv(cmd, s), modules, resource.Restore)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	return finish(s, report)
}

// pickModules asks which of modules to restore. Modules without a backup
// are listed but cannot be picked.
func pickModules(s config.Settings, modules []resource.Module) ([]resource.Module, error) {
	if !isTerminal() {
		return nil, errors.New("--interactive needs a terminal")
	}

	items := make([]picker.Item, 0, len(modules))
	for _, m := range modules {
		it := picker.Item{Name: m.Name, Title: m.Title}
		if dir := m.Dir(s); fsops.IsDir(dir) {
			files, _ := fsops.TreeSize(dir)
			it.Detail = fmt.Sprintf("%d files", files)
			it.Selected = true
		} else {
			it.Detail = "no backup"
			it.Disabled = true
		}
		items = append(items, it)
	}

	names, err := pick("Select modules to restore", items)
	if err != nil {
		return nil, err
	}
	return apps.Lookup(modules, names...)
}

func restoreCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "restore settings from a backup",
		UsageText: "macprefs restore [module...] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "pick modules from a checklist",
			},
		},
		ShellComplete: moduleCompleter,
		Action:        restoreCommandAction,
	}
}
