// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package apps holds the per-application path tables. Each function returns a
// resource.Module describing what to copy for one application and any extra
// work (dumping a Brewfile, listing VS Code extensions) the module needs. A
// few tables can be overridden from the config file; see the keys named on
// each constructor.
package apps
