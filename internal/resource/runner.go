// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/selector"
)

// Direction is either Backup or Restore.
type Direction int

const (
	Backup Direction = iota
	Restore
)

func (d Direction) String() string {
	if d == Restore {
		return "restore"
	}
	return "backup"
}

// Result is the outcome of one module in a pass.
type Result struct {
	Module   string
	Copied   int
	Skipped  int
	Selected []string
	Err      error
}

// Report collects the results of a pass in module order.
type Report struct {
	Direction Direction
	Results   []Result
}

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every module error, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Module, res.Err))
	}
	return errors.Join(errs...)
}

// Run backs up or restores each module in turn. A failing module is logged
// and recorded; the pass carries on with the next one. The context is checked
// between modules.
func Run(ctx context.Context, env *Env, modules []Module, dir Direction) (Report, error) {
	report := Report{Direction: dir}

	if dir == Backup {
		if err := env.Copier.EnsureDir(env.Settings.BackupDir); err != nil {
			return report, err
		}
	}

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var res Result
		if dir == Backup {
			log.Infof("Backing up %s...", m.Title)
			res = backupModule(ctx, env, m)
		} else {
			log.Infof("Restoring %s...", m.Title)
			res = restoreModule(ctx, env, m)
		}
		res.Module = m.Name

		if res.Err != nil {
			log.WithError(res.Err).Warnf("%s %s failed", m.Name, dir)
		}
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func backupModule(ctx context.Context, env *Env, m Module) Result {
	var res Result
	dest := m.Dir(env.Settings)

	for _, it := range m.Items {
		src, ok := it.resolve(env)
		if !ok {
			log.Debugf("No %s found... skipping.", it.Source)
			res.Skipped++
			continue
		}

		var err error
		if it.Kind == Dir {
			err = env.Copier.CopyDir(ctx, src, it.BackupPath(dest), false)
		} else {
			_, err = env.Copier.CopyFile(ctx, src, filepath.Join(dest, it.Dest), false)
		}
		if err != nil && it.BestEffort {
			log.Debugf("Could not back up %s (may need sudo): %v", it.Source, err)
			res.Skipped++
			continue
		}
		if err != nil {
			res.Err = errors.Join(res.Err, err)
			continue
		}
		log.Debugf("Backed up %s", it.Source)
		res.Copied++
	}

	if m.Scan != nil {
		selected, copied, err := backupScan(ctx, env, m.Scan, dest)
		res.Selected = selected
		res.Copied += copied
		res.Err = errors.Join(res.Err, err)
	}

	if m.Backup != nil {
		if err := env.Copier.EnsureDir(dest); err != nil {
			res.Err = errors.Join(res.Err, err)
		} else if err := m.Backup(ctx, env, dest); err != nil {
			res.Err = errors.Join(res.Err, err)
		}
	}

	return res
}

func backupScan(ctx context.Context, env *Env, s *Scan, dest string) ([]string, int, error) {
	base := env.Settings.HomePath(s.BaseDir)
	if !env.FS.PathExists(base) {
		log.Infof("%s not found... skipping.", s.BaseDir)
		return nil, 0, nil
	}

	names, err := env.FS.ListDirectories(base)
	if err != nil {
		var le *selector.ListingError
		if errors.As(err, &le) {
			log.Infof("Could not list %s: %v", le.Path, le.Err)
			return nil, 0, nil
		}
		return nil, 0, err
	}

	picked := s.Pick(env.FS, base, names, s.SubPaths)
	sort.Strings(picked)

	copied := 0
	var errs error
	for _, name := range picked {
		for _, sub := range s.SubPaths {
			src := filepath.Join(base, name, sub)
			if !env.FS.PathExists(src) {
				continue
			}
			if err := env.Copier.CopyDir(ctx, src, filepath.Join(dest, name, sub), false); err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			log.Debugf("Backed up %s/%s", name, sub)
			copied++
		}
		log.Infof("Backed up settings for %s", name)
	}
	return picked, copied, errs
}

func restoreModule(ctx context.Context, env *Env, m Module) Result {
	var res Result
	src := m.Dir(env.Settings)

	if !env.FS.PathExists(src) {
		log.Infof("No %s backup found... skipping.", m.Title)
		res.Skipped++
		return res
	}

	// Restored files are chowned in one call per owner/mode pair.
	type ownership struct{ owner, mode string }
	toFix := map[ownership][]string{}
	var order []ownership

	for _, it := range m.Items {
		backup := it.BackupPath(src)
		if !env.FS.PathExists(backup) {
			log.Debugf("No %s backup found... skipping.", it.Source)
			res.Skipped++
			continue
		}

		live, _ := it.resolve(env)
		owner := it.Owner
		if owner == "" {
			owner = env.Settings.User
		}

		if it.Kind == Dir {
			if err := env.Copier.CopyDir(ctx, backup, live, it.Sudo); err != nil {
				res.Err = errors.Join(res.Err, err)
				continue
			}
			if err := env.Copier.ChownTree(ctx, live, owner, it.Mode); err != nil {
				res.Err = errors.Join(res.Err, err)
			}
		} else {
			dst, err := env.Copier.CopyFile(ctx, backup, filepath.Dir(live), it.Sudo)
			if err != nil {
				res.Err = errors.Join(res.Err, err)
				continue
			}
			key := ownership{owner, it.Mode}
			if _, seen := toFix[key]; !seen {
				order = append(order, key)
			}
			toFix[key] = append(toFix[key], dst)
		}
		log.Debugf("Restored %s", it.Source)
		res.Copied++
	}

	for _, key := range order {
		if err := env.Copier.ChownFiles(ctx, key.owner, key.mode, toFix[key]...); err != nil {
			res.Err = errors.Join(res.Err, err)
		}
	}

	if m.Scan != nil {
		restored, copied, err := restoreScan(ctx, env, m.Scan, src)
		res.Selected = restored
		res.Copied += copied
		res.Err = errors.Join(res.Err, err)
	}

	if m.Restore != nil {
		if err := m.Restore(ctx, env, src); err != nil {
			res.Err = errors.Join(res.Err, err)
		}
	}

	for _, n := range m.Notes {
		log.Infof("%s", n)
	}

	return res
}

// restoreScan puts back every directory found in the backup, not just the
// ones a fresh scan would pick.
func restoreScan(ctx context.Context, env *Env, s *Scan, src string) ([]string, int, error) {
	names, err := env.FS.ListDirectories(src)
	if err != nil {
		return nil, 0, err
	}

	base := env.Settings.HomePath(s.BaseDir)
	copied := 0
	var restored []string
	var errs error
	for _, name := range names {
		subs, err := backedUpSubPaths(env.FS, filepath.Join(src, name), s.SubPaths)
		if err != nil {
			errs = errors.Join(errs, err)
		}

		done := false
		for _, sub := range subs {
			from := filepath.Join(src, name, sub)
			to := filepath.Join(base, name, sub)
			if err := env.Copier.CopyDir(ctx, from, to, true); err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			if err := env.Copier.ChownTree(ctx, to, env.Settings.User, ""); err != nil {
				errs = errors.Join(errs, err)
			}
			log.Debugf("Restored %s/%s", name, sub)
			copied++
			done = true
		}
		if done {
			log.Infof("Restored settings for %s", name)
			restored = append(restored, name)
		}
	}
	return restored, copied, errs
}

// backedUpSubPaths returns the sub-paths of one backed-up directory to put
// back: the configured ones present in the backup, then any other top-level
// directory it holds. The markers may have changed since the backup was made.
func backedUpSubPaths(fs selector.FS, dir string, subPaths []string) ([]string, error) {
	var subs []string
	covered := map[string]bool{}
	for _, sub := range subPaths {
		covered[strings.SplitN(filepath.ToSlash(sub), "/", 2)[0]] = true //nolint:mnd
		if fs.PathExists(filepath.Join(dir, sub)) {
			subs = append(subs, sub)
		}
	}

	entries, err := fs.ListDirectories(dir)
	if err != nil {
		return subs, err
	}
	for _, e := range entries {
		if !covered[e] {
			subs = append(subs, e)
		}
	}
	return subs, nil
}
