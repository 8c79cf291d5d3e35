// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ renders structural differences between a backed up JSON
// settings file and its live counterpart.
package differ
