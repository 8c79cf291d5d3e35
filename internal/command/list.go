// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/manifest"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/output"
)

var listColumns = []output.Column{
	{Key: "module", Title: "MODULE"},
	{Key: "title", Title: "DESCRIPTION"},
	{Key: "dir", Title: "DIR"},
	{Key: "backed_up", Title: "BACKED UP"},
	{Key: "files", Title: "FILES"},
	{Key: "size", Title: "SIZE"},
}

// listCommandAction shows every module and the state of its backup.
func listCommandAction(_ context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "list"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}

	rows := listRows(s)
	opts := outputOptions(cmd)
	if opts.Format == output.Text {
		opts.Header = listHeader(s)
	}
	return emit(cmd, rows, listColumns, opts)
}

func listRows(s config.Settings) []map[string]interface{} {
	var rows []map[string]interface{}
	for _, m := range apps.All() {
		dir := m.Dir(s)
		row := map[string]interface{}{
			"module":    m.Name,
			"title":     m.Title,
			"dir":       m.Subdir,
			"backed_up": false,
			"files":     0,
			"size":      "",
			"bytes":     int64(0),
		}
		if fsops.IsDir(dir) {
			files, bytes := fsops.TreeSize(dir)
			row["backed_up"] = true
			row["files"] = files
			row["bytes"] = bytes
			row["size"] = humanize.Bytes(uint64(bytes)) //nolint:gosec
		}
		rows = append(rows, row)
	}
	return rows
}

func listHeader(s config.Settings) string {
	if !fsops.IsDir(s.BackupDir) {
		return fmt.Sprintf("No backup at %s", s.BackupDir)
	}
	m, err := manifest.Load(s.BackupDir)
	if err != nil {
		return fmt.Sprintf("Backup at %s", s.BackupDir)
	}
	return fmt.Sprintf("Backup at %s, taken %s by %s", s.BackupDir, humanize.Time(m.Created), m.User)
}

func listCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "list modules and their backup status",
		UsageText: "macprefs list [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: listCommandAction,
	}
}
