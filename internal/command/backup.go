// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/manifest"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/readme"
	"github.com/clintmod/macprefs/internal/resource"
	"github.com/clintmod/macprefs/internal/version"
)

// backupCommandAction backs up the named modules, or all of them, then
// records the manifest and restore guide.
func backupCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "backup"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}
	modules, err := modulesFromArgs(cmd)
	if err != nil {
		return err
	}

	log.Infof("Backing up to %s", s.BackupDir)
	report, err := resource.Run(ctx, newEnv(cmd, s), modules, resource.Backup)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if s.DryRun {
		log.Infof("dry-run: not writing %s or %s", manifest.FileName, readme.FileName)
	} else {
		if err := writeManifest(s, report); err != nil {
			log.WithError(err).Warnf("could not write %s", manifest.FileName)
		}
		if _, err := writeReadme(s); err != nil {
			log.WithError(err).Warnf("could not write %s", readme.FileName)
		}
	}

	return finish(s, report)
}

// writeManifest records the modules in report, keeping the records of
// modules this pass did not touch.
func writeManifest(s config.Settings, report resource.Report) error {
	byName := map[string]resource.Module{}
	for _, m := range apps.All() {
		byName[m.Name] = m
	}

	var entries []manifest.Entry
	for _, r := range report.Results {
		m, ok := byName[r.Module]
		if !ok {
			continue
		}
		entries = append(entries, manifest.Entry{Name: m.Name, Subdir: m.Subdir, Selected: r.Selected})
	}

	m, err := manifest.Build(s.BackupDir, s.User, version.Version, entries)
	if err != nil {
		return err
	}
	if prev, err := manifest.Load(s.BackupDir); err == nil {
		m.Merge(prev)
	}
	return manifest.Write(s.BackupDir, m)
}

// writeReadme renders RESTORE.md for every module with a backup.
func writeReadme(s config.Settings) (string, error) {
	return readme.Write(readmeData(s))
}

func readmeData(s config.Settings) readme.Data {
	d := readme.Data{
		Date:      time.Now(),
		BackupDir: s.BackupDir,
		Version:   version.Version,
	}
	if m, err := manifest.Load(s.BackupDir); err == nil {
		d.Date = m.Created.Local()
	}
	for _, m := range apps.All() {
		dir := m.Dir(s)
		if !fsops.IsDir(dir) {
			continue
		}
		d.Sections = append(d.Sections, readme.Section{
			Name:  m.Name,
			Title: m.Title,
			Dir:   dir,
			Notes: m.Notes,
		})
	}
	return d
}

func backupCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "backup",
		Usage:     "back up settings",
		UsageText: "macprefs backup [module...] [options]",
		Description: "Copies the settings of every module, or only the named ones, into the\n" +
			"backup directory and writes manifest.yaml and RESTORE.md next to them.",
		Metadata: map[string]any{
			"meta": meta,
		},
		ShellComplete: moduleCompleter,
		Action:        backupCommandAction,
	}
}
