// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/manifest"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/output"
)

var verifyColumns = []output.Column{
	{Key: "module", Title: "MODULE"},
	{Key: "path", Title: "PATH"},
	{Key: "problem", Title: "PROBLEM"},
}

// verifyCommandAction re-hashes the backup against manifest.yaml.
func verifyCommandAction(_ context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "verify"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.Load(s.BackupDir)
	if err != nil {
		return err
	}
	problems, err := manifest.Verify(s.BackupDir, m)
	if err != nil {
		return err
	}

	files := 0
	for _, mod := range m.Modules {
		files += len(mod.Files)
	}

	if len(problems) == 0 {
		fmt.Fprintf(writer(cmd), "Verified %d files in %d modules.\n", files, len(m.Modules))
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(problems))
	for _, p := range problems {
		rows = append(rows, map[string]interface{}{"module": p.Module, "path": p.Path, "problem": p.Reason})
	}
	if err := emit(cmd, rows, verifyColumns, outputOptions(cmd)); err != nil {
		return err
	}
	return fmt.Errorf("%d of %d files do not match %s", len(problems), files, manifest.FileName)
}

func verifyCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "check the backup against its manifest",
		UsageText: "macprefs verify [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: verifyCommandAction,
	}
}
