// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package resource describes what a module backs up (Module, Item, Scan) and
// runs the single backup/restore loop over those descriptions. Per-application
// path tables live in package apps; this package knows nothing about any
// particular application.
package resource
