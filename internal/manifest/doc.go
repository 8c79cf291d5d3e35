// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package manifest records what a backup pass wrote.
//
// manifest.yaml sits at the root of the backup directory and lists, per
// module, every file with its size and BLAKE2b-256 checksum plus the
// versioned directories the selector picked. Verify re-hashes the tree and
// reports files that went missing or changed since the backup.
package manifest
