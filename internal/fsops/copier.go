// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/clintmod/macprefs/internal/log"
)

// Copier moves files between the live system and the backup tree. With
// DryRun set it logs every action and changes nothing.
type Copier struct {
	Runner Runner
	DryRun bool
}

// NewCopier returns a Copier running commands through r.
func NewCopier(r Runner, dryRun bool) *Copier {
	return &Copier{Runner: r, DryRun: dryRun}
}

// EnsureDir creates path and any missing parents.
func (c *Copier) EnsureDir(path string) error {
	if c.DryRun {
		log.Debugf("dry-run: mkdir -p %s", path)
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// CopyDir mirrors the contents of src into dst with rsync -a. Under sudo only
// the parents of dst are created up front: rsync makes the last path element
// itself (so it ends up owned by root until chowned) but never its parents.
func (c *Copier) CopyDir(ctx context.Context, src, dst string, sudo bool) error {
	target := dst
	if sudo {
		target = filepath.Dir(dst)
	}
	if err := c.EnsureDir(target); err != nil {
		return err
	}
	return c.rsync(ctx, sudo, withSlash(src), withSlash(dst))
}

// CopyFile copies src into dstDir keeping its base name and permissions and
// returns the destination path. Under sudo the copy is done by rsync.
func (c *Copier) CopyFile(ctx context.Context, src, dstDir string, sudo bool) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if sudo {
		if err := c.EnsureDir(dstDir); err != nil {
			return "", err
		}
		return dst, c.rsync(ctx, true, src, withSlash(dstDir))
	}

	if c.DryRun {
		log.Debugf("dry-run: cp %s %s", src, dst)
		return dst, nil
	}

	if err := c.EnsureDir(dstDir); err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return dst, os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// WriteFile writes data to path, creating parent directories.
func (c *Copier) WriteFile(path string, data []byte) error {
	if c.DryRun {
		log.Debugf("dry-run: write %s (%d bytes)", path, len(data))
		return nil
	}
	if err := c.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ChownTree recursively hands path to owner and, when mode is not empty,
// applies it recursively too. Both run under sudo since restored trees are
// usually root-owned.
func (c *Copier) ChownTree(ctx context.Context, path, owner, mode string) error {
	if err := c.sudo(ctx, "chown", "-R", owner, path); err != nil {
		return err
	}
	if mode != "" {
		return c.sudo(ctx, "chmod", "-R", mode, path)
	}
	return nil
}

// ChownFiles hands each file to owner and optionally applies mode.
func (c *Copier) ChownFiles(ctx context.Context, owner, mode string, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	if err := c.sudo(ctx, "chown", append([]string{owner}, files...)...); err != nil {
		return err
	}
	if mode != "" {
		return c.sudo(ctx, "chmod", append([]string{mode}, files...)...)
	}
	return nil
}

// Output runs a command that only reads system state. Unlike the mutating
// helpers it also runs in dry-run mode.
func (c *Copier) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return c.Runner.Run(ctx, name, args...)
}

// Exec runs a command that changes system state. It is skipped in dry-run
// mode.
func (c *Copier) Exec(ctx context.Context, name string, args ...string) error {
	if c.DryRun {
		log.Infof("dry-run: %s %s", name, strings.Join(args, " "))
		return nil
	}
	_, err := c.Runner.Run(ctx, name, args...)
	return err
}

func (c *Copier) rsync(ctx context.Context, sudo bool, src, dst string) error {
	if sudo {
		return c.sudo(ctx, "rsync", "-a", src, dst)
	}
	return c.Exec(ctx, "rsync", "-a", src, dst)
}

func (c *Copier) sudo(ctx context.Context, name string, args ...string) error {
	return c.Exec(ctx, "sudo", append([]string{name}, args...)...)
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
