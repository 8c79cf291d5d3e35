// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package selector

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// candidateRegex matches "<letters><digits>[.digits]*" with nothing trailing.
var candidateRegex = regexp.MustCompile(`^([A-Za-z]+)([0-9]+(?:\.[0-9]+)*)$`)

// FS is the narrow filesystem collaborator the selector depends on.
type FS interface {
	// ListDirectories returns the names of the directories directly beneath
	// path. An unreadable path yields a *ListingError.
	ListDirectories(path string) ([]string, error)

	// PathExists reports whether path exists. Unreadable paths are reported as
	// absent.
	PathExists(path string) bool
}

// ListingError reports a base directory that could not be listed. The
// selector never produces one itself; FS implementations return it so callers
// can tell a listing failure apart from other errors.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Candidate is one directory entry observed under a base path.
//
// Parsed is false when RawName does not have the "<letters><digits>[.digits]*"
// shape. ResourceName and Version are empty in that case.
type Candidate struct {
	RawName      string
	ResourceName string
	Version      []int
	Parsed       bool
	HasContent   bool
}

// Selection maps a resource name to the raw directory name chosen for it.
type Selection map[string]string

// Names returns the selected raw names sorted alphabetically.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s))
	for _, raw := range s {
		names = append(names, raw)
	}
	sort.Strings(names)
	return names
}

// Notice receives a candidate the selector passed over along with a short
// reason. It exists for debug logging and must not mutate anything the caller
// relies on.
type Notice func(c Candidate, reason string)

type options struct {
	notice Notice
}

// Option customizes SelectLatest.
type Option func(*options)

// WithNotice registers a callback for skipped candidates.
func WithNotice(n Notice) Option {
	return func(o *options) { o.notice = n }
}

// ParseCandidate splits rawName into its resource name and version. A name that
// does not match, or whose version groups overflow an int, comes back with
// Parsed set to false.
func ParseCandidate(rawName string) Candidate {
	c := Candidate{RawName: rawName}

	m := candidateRegex.FindStringSubmatch(rawName)
	if m == nil {
		return c
	}

	parts := strings.Split(m[2], ".")
	version := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return c
		}
		version = append(version, n)
	}

	c.ResourceName = m[1]
	c.Version = version
	c.Parsed = true
	return c
}

// HasContent reports whether any of markers exists beneath basePath/rawName.
// It stops probing at the first hit.
func HasContent(fs FS, basePath, rawName string, markers []string) bool {
	for _, marker := range markers {
		if fs.PathExists(filepath.Join(basePath, rawName, marker)) {
			return true
		}
	}
	return false
}

// CompareVersions orders two version tuples element-wise. When one tuple is a
// prefix of the other the shorter one sorts first, so (2024) < (2024, 1).
func CompareVersions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SelectLatest chooses, for each resource name found in rawNames, the
// content-bearing candidate with the highest version. Names are parsed before
// any filesystem probe so unrelated directories are never inspected.
//
// Identical versions under different raw names (possible only with leading
// zeros, e.g. "Foo1.01" and "Foo1.1") resolve to the alphabetically smallest
// raw name regardless of listing order.
func SelectLatest(fs FS, basePath string, rawNames []string, markers []string, opts ...Option) Selection {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	best := map[string]Candidate{}
	for _, raw := range rawNames {
		c := ParseCandidate(raw)
		if !c.Parsed {
			o.notify(c, "name is not <letters><version>")
			continue
		}

		c.HasContent = HasContent(fs, basePath, raw, markers)
		if !c.HasContent {
			o.notify(c, "no marker sub-paths")
			continue
		}

		cur, ok := best[c.ResourceName]
		if !ok || better(c, cur) {
			if ok {
				o.notify(cur, "superseded by "+c.RawName)
			}
			best[c.ResourceName] = c
			continue
		}
		o.notify(c, "superseded by "+cur.RawName)
	}

	result := make(Selection, len(best))
	for name, c := range best {
		result[name] = c.RawName
	}
	return result
}

// better reports whether c should replace cur as the group's pick.
func better(c, cur Candidate) bool {
	switch CompareVersions(c.Version, cur.Version) {
	case 1:
		return true
	case 0:
		return c.RawName < cur.RawName
	}
	return false
}

func (o options) notify(c Candidate, reason string) {
	if o.notice != nil {
		o.notice(c, reason)
	}
}
