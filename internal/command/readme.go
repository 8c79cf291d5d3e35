// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/readme"
)

// readmeCommandAction prints the restore guide, or rewrites RESTORE.md with
// --write.
func readmeCommandAction(_ context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "readme"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("write") {
		return readme.Render(writer(cmd), readmeData(s))
	}

	p, err := writeReadme(s)
	if err != nil {
		return err
	}
	log.Infof("Wrote %s", p)
	return nil
}

func readmeCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "readme",
		Usage:     "show the restore guide for the backup",
		UsageText: "macprefs readme [--write]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "write " + readme.FileName + " into the backup directory",
			},
		},
		Action: readmeCommandAction,
	}
}
