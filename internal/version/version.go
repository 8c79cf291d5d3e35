// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other macprefs packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version recorded in the build info, or "dev" for
// local builds. It is stamped into backup manifests.
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}()
