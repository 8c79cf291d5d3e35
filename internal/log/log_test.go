// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestInitLogger_Levels(t *testing.T) {
	tests := []struct {
		env   string
		level log.Level
		trace bool
	}{
		{"", log.InfoLevel, false},
		{"trace", log.DebugLevel, true},
		{"DEBUG", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"bogus", log.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("MACPREFS_LOG", tt.env)
			InitLogger()
			assert.Equal(t, tt.trace, traceEnabled)

			l, ok := log.Log.(*log.Logger)
			if assert.True(t, ok) {
				assert.Equal(t, tt.level, l.Level)
			}
		})
	}
}

func TestHandler_Format(t *testing.T) {
	t.Setenv("MACPREFS_LOG", "trace")
	InitLogger()
	buf := capture(t)

	Infof("Backing up %s...", "git")
	Tracef("probe %d", 3)
	WithError(errors.New("boom")).Warn("copy failed")

	out := buf.String()
	assert.Contains(t, out, " I Backing up git...")
	assert.Contains(t, out, " T probe 3")
	assert.Contains(t, out, " W copy failed: boom")
}

func TestHandler_LevelFilter(t *testing.T) {
	t.Setenv("MACPREFS_LOG", "warn")
	InitLogger()
	buf := capture(t)

	Infof("hidden")
	Debugf("hidden too")
	Warnf("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestHandler_PlainProgress(t *testing.T) {
	t.Setenv("MACPREFS_LOG", "")
	InitLogger()
	buf := capture(t)

	Infof("Restoring %s...", "git configuration")
	Warnf("careful")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "Restoring git configuration...", lines[0])
		assert.True(t, strings.HasSuffix(lines[1], " W careful"), lines[1])
	}
}
