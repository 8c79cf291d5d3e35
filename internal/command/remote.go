// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/meta"
	"github.com/clintmod/macprefs/internal/remote"
)

// connect builds the S3 client. Tests replace it.
var connect = func(ctx context.Context, opts ...remote.Option) (remote.Client, error) {
	return remote.Connect(ctx, opts...)
}

func remoteTarget(ctx context.Context, cmd *cli.Command) (remote.Client, remote.Target, error) {
	target := remote.Target{
		Bucket: cmd.String("bucket"),
		Prefix: cmd.String("prefix"),
	}

	var opts []remote.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, remote.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, remote.WithRegion(r))
	}
	if e := cmd.String("endpoint"); e != "" {
		opts = append(opts, remote.WithEndpoint(e))
	}

	client, err := connect(ctx, opts...)
	if err != nil {
		return nil, target, err
	}
	return client, target, nil
}

// pushCommandAction uploads the backup directory.
func pushCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "push"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}
	if !fsops.IsDir(s.BackupDir) {
		return fmt.Errorf("backup directory %s does not exist", s.BackupDir)
	}

	client, target, err := remoteTarget(ctx, cmd)
	if err != nil {
		return err
	}

	log.Infof("Pushing %s to %s", s.BackupDir, target)
	st, err := remote.Push(ctx, client, target, s.BackupDir, s.DryRun)
	if err != nil {
		return err
	}
	log.Infof("Pushed %s", st)
	return nil
}

// pullCommandAction downloads a backup into the backup directory.
func pullCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "pull"

	s, err := settingsFromCommand(cmd)
	if err != nil {
		return err
	}

	client, target, err := remoteTarget(ctx, cmd)
	if err != nil {
		return err
	}

	log.Infof("Pulling %s into %s", target, s.BackupDir)
	st, err := remote.Pull(ctx, client, target, s.BackupDir, s.DryRun)
	if err != nil {
		return err
	}
	if st.Files == 0 {
		log.Warnf("Nothing found at %s", target)
	}
	log.Infof("Pulled %s", st)
	return nil
}

// newRemoteFlags returns the S3 flags. --bucket and --prefix also read the
// "remote" section of the config file at path.
func newRemoteFlags(path string) []cli.Flag {
	bucket := &cli.StringFlag{
		Name:     "bucket",
		Usage:    "S3 bucket holding the backup",
		Required: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MACPREFS_BUCKET"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, NonEmptyValidator)
		},
	}
	prefix := &cli.StringFlag{
		Name:  "prefix",
		Usage: "key prefix inside the bucket",
		Value: "macprefs",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MACPREFS_PREFIX"),
		),
	}
	if path != "" {
		bucket = NameSpacedValueChainFlagFromConfigFile("remote", "bucket", path, bucket)
		prefix = NameSpacedValueChainFlagFromConfigFile("remote", "prefix", path, prefix)
	}

	return []cli.Flag{
		bucket,
		prefix,
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "endpoint URL of an S3 compatible store",
		},
	}
}

func pushCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "upload the backup to S3",
		UsageText: "macprefs push --bucket name [--prefix p] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  newRemoteFlags(meta.Config.Source),
		Action: pushCommandAction,
	}
}

func pullCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "pull",
		Usage:     "download a backup from S3",
		UsageText: "macprefs pull --bucket name [--prefix p] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  newRemoteFlags(meta.Config.Source),
		Action: pullCommandAction,
	}
}
