// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package readme

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(dir string) Data {
	return Data{
		Date:      time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		BackupDir: dir,
		Version:   "1.0.0",
		Sections: []Section{
			{Name: "git", Title: "git configuration", Dir: filepath.Join(dir, "git_config")},
			{Name: "fonts", Title: "custom fonts", Dir: filepath.Join(dir, "fonts"),
				Notes: []string{"Font cache will be rebuilt automatically by the system."}},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample("/backups/mac")))
	out := buf.String()

	assert.Contains(t, out, "Backup created: 2026-03-14 09:26:53 UTC")
	assert.Contains(t, out, `export MACPREFS_BACKUP_DIR="/backups/mac"`)
	assert.Contains(t, out, "macprefs version: 1.0.0")
	assert.Contains(t, out, "### git configuration (`git`)")
	assert.Contains(t, out, "Backup directory: `/backups/mac/fonts`")
	assert.Contains(t, out, "- Font cache will be rebuilt automatically by the system.")
}

func TestRenderWithoutVersion(t *testing.T) {
	d := sample("/b")
	d.Version = ""
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d))
	assert.NotContains(t, buf.String(), "macprefs version")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	p, err := Write(sample(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# MacPrefs Restore Guide")

	_, err = Write(sample(filepath.Join(dir, "missing")))
	assert.Error(t, err)
}
