// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/output"
)

// NewGlobalFlags returns the flags shared by every subcommand. ns and path
// are the subcommand name and config file used as value sources for
// --backup-dir and --user.
func NewGlobalFlags(ns, path string) []cli.Flag {
	backupDir := &cli.StringFlag{
		Name:    "backup-dir",
		Aliases: []string{"b"},
		Usage:   "backup directory",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MACPREFS_BACKUP_DIR"),
		),
	}
	user := &cli.StringFlag{
		Name:  "user",
		Usage: "user that owns restored files",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MACPREFS_USER"),
		),
	}
	if path != "" {
		backupDir = NameSpacedValueChainFlagFromConfigFile(ns, "backup_dir", path, backupDir)
		user = NameSpacedValueChainFlagFromConfigFile(ns, "user", path, user)
	}

	return []cli.Flag{
		backupDir,
		user,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "show what would be done without changing anything",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated filter expressions for result rows",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Value:   output.Text,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail when any module fails",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile appends the namespaced key
// (ns.key) and then the global key from the YAML file at path to the flag's
// source chain. Environment sources already in the chain keep precedence.
func NameSpacedValueChainFlagFromConfigFile(ns, key, path string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	return flag
}
