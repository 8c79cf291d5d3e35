// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"strings"

	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/selector"
)

// LatestVersions picks the newest content-bearing directory per resource
// name, treating the scan's sub-paths as content markers.
func LatestVersions() Pick {
	return func(fs selector.FS, base string, names, subPaths []string) []string {
		sel := selector.SelectLatest(fs, base, names, subPaths,
			selector.WithNotice(func(c selector.Candidate, reason string) {
				log.Debugf("skipping %s: %s", c.RawName, reason)
			}))
		return sel.Names()
	}
}

// Prefixed picks every directory whose name starts with one of prefixes and
// that contains at least one of the scan's sub-paths.
func Prefixed(prefixes ...string) Pick {
	return func(fs selector.FS, base string, names, subPaths []string) []string {
		var picked []string
		for _, name := range names {
			for _, p := range prefixes {
				if strings.HasPrefix(name, p) && selector.HasContent(fs, base, name, subPaths) {
					picked = append(picked, name)
					break
				}
			}
		}
		return picked
	}
}
