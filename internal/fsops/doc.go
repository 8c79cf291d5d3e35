// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fsops wraps the filesystem and shell calls macprefs makes: listing
// and probing directories, copying files and trees (rsync for trees), running
// external tools such as brew or code, and fixing ownership after privileged
// restores. Everything that touches the machine goes through here so the
// orchestration above it can be exercised with fakes.
package fsops
