// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package selector picks one directory per logical resource from a listing of
// versioned directory names such as "PyCharm2023.3" and "PyCharm2024.1". Only
// candidates that carry real settings (at least one marker sub-path) are
// eligible, and the highest dotted version wins.
//
// The package holds no state. Filesystem access goes through the FS interface
// so callers can substitute a fake in tests.
package selector
