// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows the rows printed by list, select and verify.
//
// Filters are key-operator-target expressions joined by a delimiter (default:
// comma, override with MACPREFS_FILTER_DELIM). A row is kept only when it
// matches every filter.
//
// Operators:
//
//   - = : exact match (negate with !=)
//   - ~ : case-insensitive match (negate with !~)
//   - ^ : prefix match (negate with !^)
//   - < : less than, numeric when both sides are numbers
//   - > : greater than, numeric when both sides are numbers
//   - @ : contains substring or list member (negate with !@)
//   - / : regular expression match (negate with !/)
//
// A key with no operator keeps rows where the value is set and not false,
// zero or empty.
//
// Examples:
//
//   - "backed_up" : modules that have a backup
//   - "module^s" : modules whose name starts with "s"
//   - "bytes>1048576" : backups larger than 1 MiB
//   - "status!=selected" : candidates the selector passed over
//
// Keys are the row keys, including ones not shown as columns (list rows carry
// "bytes"). A key no row has is reported and ignored.
package filters
