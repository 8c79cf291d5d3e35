// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// DefaultBackupSubdir is joined onto the home directory when no backup
// directory is configured anywhere.
const DefaultBackupSubdir = "Dropbox/MacPrefsBackup"

// Settings is the explicit configuration handed to the backup orchestration.
// Nothing below the command layer looks up the home directory, user or backup
// root on its own.
type Settings struct {
	HomeDir   string
	User      string
	BackupDir string
	DryRun    bool
	Strict    bool
}

// ResolveSettings fills the empty fields of overrides. Precedence per field:
//   - HomeDir: override, then os.UserHomeDir.
//   - User: override, MACPREFS_USER, SUDO_USER, USER, then the current user.
//   - BackupDir: override, MACPREFS_BACKUP_DIR, config key "backup_dir", then
//     $HOME/Dropbox/MacPrefsBackup.
//
// A leading "~/" in BackupDir is expanded against HomeDir.
func ResolveSettings(overrides Settings) (Settings, error) {
	s := overrides

	if s.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		s.HomeDir = home
	}

	if s.User == "" {
		s.User = firstEnv("MACPREFS_USER", "SUDO_USER", "USER")
	}
	if s.User == "" {
		if u, err := user.Current(); err == nil {
			s.User = u.Username
		}
	}
	if s.User == "" {
		return Settings{}, errors.New("failed to resolve user; set MACPREFS_USER")
	}

	if s.BackupDir == "" {
		s.BackupDir = os.Getenv("MACPREFS_BACKUP_DIR")
	}
	if s.BackupDir == "" {
		s.BackupDir, _ = GetString("backup_dir", "")
	}
	if s.BackupDir == "" {
		s.BackupDir = filepath.Join(s.HomeDir, DefaultBackupSubdir)
	}
	s.BackupDir = expandHome(s.BackupDir, s.HomeDir)

	return s, nil
}

// ModuleDir returns the backup subdirectory for a module.
func (s Settings) ModuleDir(subdir string) string {
	return filepath.Join(s.BackupDir, subdir)
}

// HomePath resolves a path relative to the home directory. Absolute paths are
// returned unchanged.
func (s Settings) HomePath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.HomeDir, rel)
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
