// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/clintmod/macprefs/internal/log"
)

// FileName is the manifest's name inside the backup directory.
const FileName = "manifest.yaml"

// Manifest describes one backup.
type Manifest struct {
	Created time.Time `yaml:"created"`
	User    string    `yaml:"user"`
	Host    string    `yaml:"host,omitempty"`
	Version string    `yaml:"version"`
	Modules []Module  `yaml:"modules"`
}

// Module lists the files one module wrote, relative to the backup directory.
type Module struct {
	Name     string   `yaml:"name"`
	Subdir   string   `yaml:"subdir"`
	Selected []string `yaml:"selected,omitempty"`
	Files    []File   `yaml:"files"`
}

// File is one backed up file.
type File struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size"`
	Sum  string `yaml:"blake2b"`
}

// Entry names a module whose subdirectory should be recorded.
type Entry struct {
	Name     string
	Subdir   string
	Selected []string
}

// Build hashes every file below root/<entry.Subdir>. Entries whose
// subdirectory does not exist are recorded with no files.
func Build(root, user, version string, entries []Entry) (*Manifest, error) {
	host, _ := os.Hostname()
	m := &Manifest{
		Created: time.Now().UTC().Truncate(time.Second),
		User:    user,
		Host:    host,
		Version: version,
	}

	for _, e := range entries {
		files, err := hashTree(root, e.Subdir)
		if err != nil {
			return nil, fmt.Errorf("failed to record %s: %w", e.Name, err)
		}
		m.Modules = append(m.Modules, Module{
			Name:     e.Name,
			Subdir:   e.Subdir,
			Selected: e.Selected,
			Files:    files,
		})
	}
	return m, nil
}

// Write stores m as root/manifest.yaml.
func Write(root string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	p := filepath.Join(root, FileName)
	if err := os.WriteFile(p, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	log.Debugf("wrote manifest: path=%s", p)
	return nil
}

// Load reads root/manifest.yaml.
func Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Module returns the named module record.
func (m *Manifest) Module(name string) (Module, bool) {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod, true
		}
	}
	return Module{}, false
}

// Merge carries over module records from prev that m does not have, so a
// backup of a few modules keeps the record of the others.
func (m *Manifest) Merge(prev *Manifest) {
	if prev == nil {
		return
	}
	for _, old := range prev.Modules {
		if _, ok := m.Module(old.Name); !ok {
			m.Modules = append(m.Modules, old)
		}
	}
	sort.SliceStable(m.Modules, func(i, j int) bool { return m.Modules[i].Name < m.Modules[j].Name })
}

// Problem is a file that no longer matches the manifest.
type Problem struct {
	Module string
	Path   string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Module, p.Path, p.Reason)
}

// Problem reasons.
const (
	Missing = "missing"
	Changed = "checksum mismatch"
	Resized = "size mismatch"
)

// Verify re-hashes every recorded file under root. Files added since the
// backup are not reported.
func Verify(root string, m *Manifest) ([]Problem, error) {
	var problems []Problem
	for _, mod := range m.Modules {
		for _, f := range mod.Files {
			p := filepath.Join(root, filepath.FromSlash(f.Path))
			info, err := os.Stat(p)
			if errors.Is(err, fs.ErrNotExist) {
				problems = append(problems, Problem{mod.Name, f.Path, Missing})
				continue
			}
			if err != nil {
				return problems, fmt.Errorf("failed to stat %s: %w", p, err)
			}
			if info.Size() != f.Size {
				problems = append(problems, Problem{mod.Name, f.Path, Resized})
				continue
			}
			sum, err := Checksum(p)
			if err != nil {
				return problems, err
			}
			if sum != f.Sum {
				problems = append(problems, Problem{mod.Name, f.Path, Changed})
			}
		}
	}
	return problems, nil
}

// Checksum returns the hex BLAKE2b-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashTree(root, subdir string) ([]File, error) {
	base := filepath.Join(root, subdir)
	if _, err := os.Stat(base); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var files []File
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are usually root-owned system plists.
			if errors.Is(err, fs.ErrPermission) {
				log.Debugf("manifest: skipping %s: %v", path, err)
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		sum, err := Checksum(path)
		if errors.Is(err, fs.ErrPermission) {
			log.Debugf("manifest: skipping %s: %v", path, err)
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Size: info.Size(), Sum: sum})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
