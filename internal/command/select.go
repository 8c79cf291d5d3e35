// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/output"
	"github.com/clintmod/macprefs/internal/selector"
)

var selectColumns = []output.Column{
	{Key: "resource", Title: "RESOURCE"},
	{Key: "candidate", Title: "CANDIDATE"},
	{Key: "version", Title: "VERSION"},
	{Key: "status", Title: "STATUS"},
}

// selectCommandAction runs the versioned directory selector over a directory
// and shows what a backup would pick. With --all the candidates passed over
// are listed too, with the reason.
func selectCommandAction(_ context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "select"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}

	base := s.HomePath(apps.JetBrainsBaseDir)
	if cmd.Args().Len() > 0 {
		base = s.HomePath(cmd.Args().First())
	}

	markers := cmd.StringSlice("marker")
	if len(markers) == 0 {
		markers = apps.JetBrainsMarkers()
	}

	fs := fsops.OS{}
	names, err := fs.ListDirectories(base)
	if err != nil {
		return err
	}

	rows := selectRows(fs, base, names, markers, cmd.Bool("all"))
	return emit(cmd, rows, selectColumns, outputOptions(cmd))
}

func selectRows(fs selector.FS, base string, names, markers []string, all bool) []map[string]interface{} {
	var rows []map[string]interface{}
	notice := func(c selector.Candidate, reason string) {
		if !all {
			return
		}
		rows = append(rows, selectRow(c, "skipped: "+reason))
	}

	sel := selector.SelectLatest(fs, base, names, markers, selector.WithNotice(notice))
	for _, res := range sortedKeys(sel) {
		rows = append(rows, selectRow(selector.ParseCandidate(sel[res]), "selected"))
	}
	return rows
}

func selectRow(c selector.Candidate, status string) map[string]interface{} {
	v := make([]string, len(c.Version))
	for i, n := range c.Version {
		v[i] = fmt.Sprint(n)
	}
	return map[string]interface{}{
		"resource":  c.ResourceName,
		"candidate": c.RawName,
		"version":   strings.Join(v, "."),
		"status":    status,
	}
}

func sortedKeys(sel selector.Selection) []string {
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func selectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "show the newest settings directory per product",
		UsageText: "macprefs select [dir] [--marker name]... [options]",
		Description: "Lists dir (default: ~/" + apps.JetBrainsBaseDir + ") and picks, per product,\n" +
			"the highest versioned directory that holds at least one marker sub-path.",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "marker",
				Aliases: []string{"m"},
				Usage:   "sub-path that marks a directory as holding settings (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "also show candidates that were passed over",
			},
		},
		Action: selectCommandAction,
	}
}
