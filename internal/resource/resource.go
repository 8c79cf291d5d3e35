// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"path/filepath"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/selector"
)

// Kind tells files and directory trees apart.
type Kind int

const (
	File Kind = iota
	Dir
)

func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// Item is one live path and where its copy lives in the module's backup
// directory.
//
// Source is relative to the home directory unless absolute. Alternates are
// tried in order when Source does not exist; on restore the last alternate is
// the destination of last resort. Dest is relative to the module backup
// directory: for a Dir it names the mirror directory, for a File the
// directory the file is copied into ("" for the module root).
//
// Sudo makes the restore copy privileged. Owner and Mode are applied after
// restore; an empty Owner means the configured user. A BestEffort item that
// cannot be backed up (typically for lack of Full Disk Access) is counted as
// skipped instead of failing the module.
type Item struct {
	Source     string
	Alternates []string
	Dest       string
	Kind       Kind
	Sudo       bool
	Owner      string
	Mode       string
	BestEffort bool
}

// HomeFile is a user file restored without privileges.
func HomeFile(source, dest string) Item {
	return Item{Source: source, Dest: dest, Kind: File}
}

// HomeDir is a user directory tree. Trees are restored with sudo and then
// handed back to the user.
func HomeDir(source, dest string) Item {
	return Item{Source: source, Dest: dest, Kind: Dir, Sudo: true}
}

// Pick chooses which entries of a scanned base directory to back up.
type Pick func(fs selector.FS, base string, names, subPaths []string) []string

// Scan backs up selected sub-paths of a variable set of directories under
// BaseDir, for example one directory per installed IDE version. Each picked
// directory is mirrored as <module dir>/<name>/<sub path>.
type Scan struct {
	BaseDir  string
	SubPaths []string
	Pick     Pick
}

// Hook runs module specific work that is not a plain copy, such as dumping
// a Brewfile. dir is the module's backup directory.
type Hook func(ctx context.Context, env *Env, dir string) error

// Module is the complete description of one application's settings.
type Module struct {
	Name   string
	Title  string
	Subdir string
	Items  []Item
	Scan   *Scan

	Backup  Hook
	Restore Hook

	// Notes are printed after restore and copied into RESTORE.md.
	Notes []string
}

// Env carries the dependencies a backup or restore pass runs with.
type Env struct {
	Settings config.Settings
	Copier   *fsops.Copier
	FS       selector.FS
}

// NewEnv wires an Env around a runner.
func NewEnv(s config.Settings, r fsops.Runner) *Env {
	return &Env{
		Settings: s,
		Copier:   fsops.NewCopier(r, s.DryRun),
		FS:       fsops.OS{},
	}
}

// Dir returns the module's backup directory.
func (m Module) Dir(s config.Settings) string {
	return s.ModuleDir(m.Subdir)
}

// resolve returns the first existing candidate for it and whether one exists.
// When none exists the last candidate is returned.
func (it Item) resolve(env *Env) (string, bool) {
	candidates := append([]string{it.Source}, it.Alternates...)
	var p string
	for _, c := range candidates {
		p = env.Settings.HomePath(c)
		if env.FS.PathExists(p) {
			return p, true
		}
	}
	return p, false
}

// LivePath is where it lives on this machine when none of its candidates
// exist yet.
func (it Item) LivePath(s config.Settings) string {
	return s.HomePath(it.Source)
}

// BackupPath is where the copy of it lives inside moduleDir.
func (it Item) BackupPath(moduleDir string) string {
	if it.Kind == Dir {
		return filepath.Join(moduleDir, it.Dest)
	}
	return filepath.Join(moduleDir, it.Dest, filepath.Base(it.Source))
}
