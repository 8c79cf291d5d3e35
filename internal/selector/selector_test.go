// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package selector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarkers = []string{"keymaps", "colors", "codestyles", "fileTemplates", "templates", "options", "tools"}

// fakeFS answers PathExists from a fixed set and records every probe.
type fakeFS struct {
	existing map[string]bool
	probes   []string
}

func newFakeFS(base string, withContent ...string) *fakeFS {
	f := &fakeFS{existing: map[string]bool{}}
	for _, name := range withContent {
		f.existing[filepath.Join(base, name, "options")] = true
	}
	return f
}

func (f *fakeFS) ListDirectories(path string) ([]string, error) {
	return nil, &ListingError{Path: path, Err: os.ErrPermission}
}

func (f *fakeFS) PathExists(path string) bool {
	f.probes = append(f.probes, path)
	return f.existing[path]
}

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		parsed   bool
		resource string
		version  []int
	}{
		{"jetbrains style", "IntelliJIdea2024.1", true, "IntelliJIdea", []int{2024, 1}},
		{"single group", "Foo1", true, "Foo", []int{1}},
		{"three groups", "GoLand2023.3.2", true, "GoLand", []int{2023, 3, 2}},
		{"leading zeros", "Foo1.01", true, "Foo", []int{1, 1}},
		{"no version", "Foo", false, "", nil},
		{"digits first", "2024Foo", false, "", nil},
		{"plain word", "random", false, "", nil},
		{"trailing dot", "Foo2024.", false, "", nil},
		{"trailing suffix", "Foo2024.1-backup", false, "", nil},
		{"inner space", "Sublime Text3", false, "", nil},
		{"empty", "", false, "", nil},
		{"overflow", "Foo99999999999999999999999", false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCandidate(tt.raw)
			assert.Equal(t, tt.raw, c.RawName)
			assert.Equal(t, tt.parsed, c.Parsed)
			assert.Equal(t, tt.resource, c.ResourceName)
			if tt.parsed {
				assert.Equal(t, tt.version, c.Version)
			} else {
				assert.Nil(t, c.Version)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"equal", []int{2024, 1}, []int{2024, 1}, 0},
		{"minor numeric not lexical", []int{2024, 10}, []int{2024, 1}, 1},
		{"major wins", []int{2023, 9}, []int{2024, 1}, -1},
		{"prefix is lesser", []int{2024}, []int{2024, 1}, -1},
		{"longer is greater", []int{1, 0}, []int{1}, 1},
		{"both empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareVersions(tt.b, tt.a))
		})
	}
}

func TestHasContent_ShortCircuits(t *testing.T) {
	base := "/base"
	fs := &fakeFS{existing: map[string]bool{
		filepath.Join(base, "Foo1", "keymaps"): true,
		filepath.Join(base, "Foo1", "tools"):   true,
	}}

	assert.True(t, HasContent(fs, base, "Foo1", testMarkers))
	assert.Len(t, fs.probes, 1, "first marker hit should stop probing")

	fs.probes = nil
	assert.False(t, HasContent(fs, base, "Bar1", testMarkers))
	assert.Len(t, fs.probes, len(testMarkers))
}

func TestSelectLatest(t *testing.T) {
	base := "/jb"
	tests := []struct {
		name        string
		raw         []string
		withContent []string
		want        Selection
	}{
		{
			name: "empty input",
			raw:  []string{},
			want: Selection{},
		},
		{
			name:        "numeric minor ordering",
			raw:         []string{"Foo2023.3", "Foo2024.1", "Foo2024.10"},
			withContent: []string{"Foo2023.3", "Foo2024.1", "Foo2024.10"},
			want:        Selection{"Foo": "Foo2024.10"},
		},
		{
			name:        "empty scaffold skipped",
			raw:         []string{"PyCharm2023.3", "PyCharm2024.1", "IntelliJIdea2024.1"},
			withContent: []string{"PyCharm2024.1", "IntelliJIdea2024.1"},
			want:        Selection{"PyCharm": "PyCharm2024.1", "IntelliJIdea": "IntelliJIdea2024.1"},
		},
		{
			name:        "newest without content loses to older with content",
			raw:         []string{"PyCharm2023.3", "PyCharm2024.1"},
			withContent: []string{"PyCharm2023.3"},
			want:        Selection{"PyCharm": "PyCharm2023.3"},
		},
		{
			name:        "longer tuple wins on shared prefix",
			raw:         []string{"Foo1", "Foo1.0"},
			withContent: []string{"Foo1", "Foo1.0"},
			want:        Selection{"Foo": "Foo1.0"},
		},
		{
			name:        "malformed names never selected",
			raw:         []string{"random", "2024Foo", "Foo", "consentOptions", "Foo2024.1"},
			withContent: []string{"random", "2024Foo", "Foo", "consentOptions", "Foo2024.1"},
			want:        Selection{"Foo": "Foo2024.1"},
		},
		{
			name:        "no content anywhere",
			raw:         []string{"Foo2024.1", "Bar2024.1"},
			withContent: nil,
			want:        Selection{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeFS(base, tt.withContent...)
			got := SelectLatest(fs, base, tt.raw, testMarkers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectLatest_UnparsedNamesNotProbed(t *testing.T) {
	base := "/jb"
	fs := newFakeFS(base, "tools-dir")

	got := SelectLatest(fs, base, []string{"random", "2024Foo", "Foo"}, testMarkers)

	assert.Empty(t, got)
	assert.Empty(t, fs.probes)
}

func TestSelectLatest_TieBreakIsOrderIndependent(t *testing.T) {
	base := "/jb"
	fs := newFakeFS(base, "Foo1.1", "Foo1.01")

	forward := SelectLatest(fs, base, []string{"Foo1.1", "Foo1.01"}, testMarkers)
	reverse := SelectLatest(fs, base, []string{"Foo1.01", "Foo1.1"}, testMarkers)

	assert.Equal(t, Selection{"Foo": "Foo1.01"}, forward)
	assert.Equal(t, forward, reverse)
}

func TestSelectLatest_Idempotent(t *testing.T) {
	base := "/jb"
	raw := []string{"GoLand2023.3", "GoLand2024.2", "WebStorm2024.1", "junk"}
	fs := newFakeFS(base, raw...)

	first := SelectLatest(fs, base, raw, testMarkers)
	second := SelectLatest(fs, base, raw, testMarkers)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"GoLand2024.2", "WebStorm2024.1"}, first.Names())
}

func TestSelectLatest_Notices(t *testing.T) {
	base := "/jb"
	fs := newFakeFS(base, "Foo2024.1", "Foo2023.1")

	reasons := map[string]string{}
	SelectLatest(fs, base, []string{"Foo2023.1", "Foo2024.1", "Foo2025.1", "junk"}, testMarkers,
		WithNotice(func(c Candidate, reason string) {
			reasons[c.RawName] = reason
		}))

	assert.Equal(t, "superseded by Foo2024.1", reasons["Foo2023.1"])
	assert.Equal(t, "no marker sub-paths", reasons["Foo2025.1"])
	assert.Contains(t, reasons["junk"], "not")
	assert.NotContains(t, reasons, "Foo2024.1")
}

// Every selected candidate must have content and beat its peers.
func TestSelectLatest_Invariants(t *testing.T) {
	base := "/jb"
	raw := []string{
		"CLion2022.3", "CLion2023.1", "CLion2023.1.1",
		"Rider2024.1", "Rider2024.2", "DataGrip2021.1",
		"Fleet", "acp-agents", "Rider2025.1",
	}
	withContent := []string{"CLion2022.3", "CLion2023.1", "Rider2024.1", "DataGrip2021.1"}
	fs := newFakeFS(base, withContent...)

	got := SelectLatest(fs, base, raw, testMarkers)
	require.Len(t, got, 3)

	for resource, chosen := range got {
		assert.True(t, fs.existing[filepath.Join(base, chosen, "options")], "%s has no content", chosen)
		cv := ParseCandidate(chosen).Version
		for _, other := range withContent {
			oc := ParseCandidate(other)
			if oc.ResourceName == resource {
				assert.GreaterOrEqual(t, CompareVersions(cv, oc.Version), 0)
			}
		}
	}
	assert.Equal(t, "CLion2023.1", got["CLion"])
	assert.Equal(t, "Rider2024.1", got["Rider"])
}

func TestListingError(t *testing.T) {
	var err error = &ListingError{Path: "/nope", Err: os.ErrNotExist}

	var le *ListingError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "/nope", le.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "/nope")
}
