// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/differ"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/resource"
)

// diffCommandAction compares each backed up JSON settings file with the
// live one and prints the differences.
func diffCommandAction(_ context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "diff"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}
	modules, err := modulesFromArgs(cmd)
	if err != nil {
		return err
	}

	opts := differ.Options{
		Color:  cmd.Bool("color"),
		Ignore: cmd.StringSlice("ignore"),
	}
	w := writer(cmd)

	compared, changed := 0, 0
	for _, m := range modules {
		for _, it := range jsonItems(m) {
			backup := it.BackupPath(m.Dir(s))
			live := it.LivePath(s)

			status, err := differ.DiffFiles(backup, live, &prefixed{w: w, header: fmt.Sprintf("--- %s: %s\n", m.Name, it.Source)}, opts)
			if errors.Is(err, differ.ErrNotJSON) {
				log.Infof("%s: %s is not plain JSON, skipping", m.Name, it.Source)
				continue
			}
			if err != nil {
				return err
			}
			if status == differ.Missing {
				continue
			}
			compared++
			if status != differ.Same {
				changed++
				if status != differ.Differs {
					fmt.Fprintf(w, "--- %s: %s %s\n", m.Name, it.Source, status)
				}
			}
		}
	}

	switch {
	case compared == 0:
		fmt.Fprintln(w, "No JSON settings files to compare.")
	case changed == 0:
		fmt.Fprintf(w, "No differences in %d files.\n", compared)
	}
	return nil
}

// jsonItems returns the module's plain JSON files.
func jsonItems(m resource.Module) []resource.Item {
	var items []resource.Item
	for _, it := range m.Items {
		if it.Kind == resource.File && strings.EqualFold(filepath.Ext(it.Source), ".json") {
			items = append(items, it)
		}
	}
	return items
}

// prefixed writes header once before the first write.
type prefixed struct {
	w       io.Writer
	header  string
	written bool
}

func (p *prefixed) Write(b []byte) (int, error) {
	if !p.written {
		p.written = true
		if _, err := p.w.Write([]byte(p.header)); err != nil {
			return 0, err
		}
	}
	return p.w.Write(b)
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare backed up JSON settings with this machine",
		UsageText: "macprefs diff [module...] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top level keys to leave out of the comparison",
			},
		},
		ShellComplete: moduleCompleter,
		Action:        diffCommandAction,
	}
}
