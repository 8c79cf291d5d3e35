// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package readme renders the RESTORE.md guide left in a backup directory.
package readme

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/clintmod/macprefs/internal/log"
)

// FileName is the guide's name inside the backup directory.
const FileName = "RESTORE.md"

//go:embed restore.md.tmpl
var restoreTemplate string

var tmpl = template.Must(template.New("restore").Parse(restoreTemplate))

// Section is the restore guidance for one module.
type Section struct {
	Name  string
	Title string
	Dir   string
	Notes []string
}

// Data feeds the template.
type Data struct {
	Date      time.Time
	BackupDir string
	Version   string
	Sections  []Section
}

// Render writes the guide to w.
func Render(w io.Writer, d Data) error {
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render %s: %w", FileName, err)
	}
	return nil
}

// Write renders the guide into d.BackupDir and returns its path.
func Write(d Data) (string, error) {
	p := filepath.Join(d.BackupDir, FileName)
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", p, err)
	}
	if err := Render(f, d); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	log.Debugf("wrote restore guide: path=%s", p)
	return p, nil
}
