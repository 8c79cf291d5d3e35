// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func sampleRows() []map[string]interface{} {
	return []map[string]interface{}{
		{"module": "vscode", "files": 12, "bytes": int64(4096), "present": true},
		{"module": "git", "files": 3, "bytes": int64(512), "present": true},
		{"module": "Fonts", "files": 0, "bytes": int64(0), "present": false},
	}
}

var sampleCols = []Column{
	{Key: "module", Title: "MODULE"},
	{Key: "files", Title: "FILES"},
	{Key: "present"},
}

func TestSortDataset(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name",
			spec:      "module",
			wantOrder: []string{"Fonts", "git", "vscode"},
		},
		{
			name:      "descending by name",
			spec:      "-module",
			wantOrder: []string{"vscode", "git", "Fonts"},
		},
		{
			name:      "case sensitive",
			spec:      "!module",
			wantOrder: []string{"Fonts", "git", "vscode"},
		},
		{
			name:      "ascending by int",
			spec:      "files",
			wantOrder: []string{"Fonts", "git", "vscode"},
		},
		{
			name:      "descending by int64",
			spec:      "-bytes",
			wantOrder: []string{"vscode", "git", "Fonts"},
		},
		{
			name:      "multiple fields",
			spec:      "-present,module",
			wantOrder: []string{"git", "vscode", "Fonts"},
		},
		{
			name:      "empty spec keeps order",
			spec:      "",
			wantOrder: []string{"vscode", "git", "Fonts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := sampleRows()
			SortDataset(data, tt.spec)
			for i, want := range tt.wantOrder {
				assert.Equal(t, want, data[i]["module"], "at index %d", i)
			}
		})
	}
}

func TestSortDatasetCaseSensitiveOrder(t *testing.T) {
	data := []map[string]interface{}{{"n": "b"}, {"n": "B"}, {"n": "a"}}
	SortDataset(data, "!n")
	assert.Equal(t, "B", data[0]["n"])

	data = []map[string]interface{}{{"n": "b"}, {"n": "B"}, {"n": "a"}}
	SortDataset(data, "n")
	assert.Equal(t, "a", data[0]["n"])
}

func TestInterfaceToString(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{"nil", nil, nil, ""},
		{"nil custom empty", nil, []string{"-"}, "-"},
		{"zero int", 0, []string{"-"}, "-"},
		{"string", "hello", nil, "hello"},
		{"int", 42, nil, "42"},
		{"int64", int64(1 << 40), nil, "1099511627776"},
		{"float", 2.5, nil, "2.5"},
		{"bool", true, nil, "true"},
		{"time", ts, nil, "2026-01-02T03:04:05Z"},
		{"strings", []string{"a", "b"}, nil, "a,b"},
		{"map", map[string]int{"x": 1}, nil, `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, sampleRows(), sampleCols, Options{Format: JSON, Sort: "module"}))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Fonts", got[0]["module"])
	assert.NotContains(t, got[0], "bytes")
}

func TestEmitJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nil, sampleCols, Options{Format: JSON}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEmitYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, sampleRows(), sampleCols, Options{Format: YAML}))

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "vscode", got[0]["module"])
	assert.Equal(t, 12, got[0]["files"])
}

func TestEmitUnknownFormat(t *testing.T) {
	err := Emit(&bytes.Buffer{}, sampleRows(), sampleCols, Options{Format: "xml"})
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestTableWriter(t *testing.T) {
	tests := []struct {
		name     string
		rows     []map[string]interface{}
		opts     Options
		contains []string
		absent   []string
		empty    bool
	}{
		{
			name:  "empty result set writes nothing",
			rows:  nil,
			empty: true,
		},
		{
			name:     "values and placeholders",
			rows:     sampleRows(),
			contains: []string{"vscode", "12", "git", "Fonts", "-"},
			absent:   []string{"MODULE", "4096"},
		},
		{
			name:     "titles",
			rows:     sampleRows(),
			opts:     Options{Titles: true},
			contains: []string{"MODULE", "FILES", "present"},
		},
		{
			name:     "header and footer",
			rows:     sampleRows(),
			opts:     Options{Header: "Backup status", Footer: "3 modules"},
			contains: []string{"Backup status", "3 modules"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			TableWriter(tt.rows, sampleCols, &buf, tt.opts)

			if tt.empty {
				assert.Empty(t, buf.String())
				return
			}
			for _, c := range tt.contains {
				assert.Contains(t, buf.String(), c)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, buf.String(), a)
			}
		})
	}
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func BenchmarkSortDataset(b *testing.B) {
	for i := 0; i < b.N; i++ {
		SortDataset(sampleRows(), "-present,module")
	}
}
