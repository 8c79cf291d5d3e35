// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package remote copies a backup directory to and from an S3 bucket.
//
// Connect builds an S3 client the same way the AWS CLI would (AWS_PROFILE,
// shared config, env, IMDS) with optional overrides, including a custom
// endpoint for S3 compatible stores. Push and Pull work against the narrow
// Client interface so they can be tested without AWS.
package remote
