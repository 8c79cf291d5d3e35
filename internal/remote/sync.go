// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/clintmod/macprefs/internal/log"
)

// Target is a bucket and key prefix holding one backup.
type Target struct {
	Bucket string
	Prefix string
}

func (t Target) String() string {
	return "s3://" + path.Join(t.Bucket, t.prefix())
}

// Key maps a slash separated path relative to the backup root to an object
// key.
func (t Target) Key(rel string) string {
	if p := t.prefix(); p != "" {
		return p + "/" + rel
	}
	return rel
}

// Rel maps an object key back to a path relative to the backup root. ok is
// false for keys outside the prefix and keys that would escape the root.
func (t Target) Rel(key string) (string, bool) {
	rel := key
	if p := t.prefix(); p != "" {
		if !strings.HasPrefix(key, p+"/") {
			return "", false
		}
		rel = strings.TrimPrefix(key, p+"/")
	}
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}
	clean := path.Clean(rel)
	if clean != rel || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", false
	}
	return clean, true
}

func (t Target) prefix() string {
	return strings.Trim(t.Prefix, "/")
}

// Stats summarizes a transfer.
type Stats struct {
	Files int
	Bytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files, %s", s.Files, humanize.Bytes(uint64(s.Bytes))) //nolint:gosec
}

// Push uploads every regular file under dir to t. With dryRun set the files
// are only listed.
func Push(ctx context.Context, c Client, t Target, dir string, dryRun bool) (Stats, error) {
	var st Stats
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				log.Warnf("skipping unreadable %s", p)
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := t.Key(filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			return err
		}

		if dryRun {
			log.Infof("dry-run: upload %s to %s", rel, key)
		} else if err := putFile(ctx, c, t.Bucket, key, p, info.Size()); err != nil {
			return err
		}
		log.Debugf("pushed %s (%s)", key, humanize.Bytes(uint64(info.Size()))) //nolint:gosec
		st.Files++
		st.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("failed to push %s to %s: %w", dir, t, err)
	}
	return st, nil
}

func putFile(ctx context.Context, c Client, bucket, key, p string, size int64) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(bucket),
		Key:           awsv2.String(key),
		Body:          f,
		ContentLength: awsv2.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object %s: %w", key, err)
	}
	return nil
}

// Pull downloads every object under t into dir, replacing local files of
// the same name. Keys that would land outside dir are skipped.
func Pull(ctx context.Context, c Client, t Target, dir string, dryRun bool) (Stats, error) {
	var st Stats
	input := &s3v2.ListObjectsV2Input{Bucket: awsv2.String(t.Bucket)}
	if p := t.prefix(); p != "" {
		input.Prefix = awsv2.String(p + "/")
	}

	paginator := s3v2.NewListObjectsV2Paginator(c, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return st, fmt.Errorf("failed to list %s: %w", t, err)
		}

		for _, obj := range page.Contents {
			key := awsv2.ToString(obj.Key)
			rel, ok := t.Rel(key)
			if !ok {
				log.Debugf("skipping object %s", key)
				continue
			}
			dst := filepath.Join(dir, filepath.FromSlash(rel))

			if dryRun {
				log.Infof("dry-run: download %s to %s", key, dst)
			} else if err := getFile(ctx, c, t.Bucket, key, dst); err != nil {
				return st, err
			}
			st.Files++
			st.Bytes += awsv2.ToInt64(obj.Size)
		}
	}
	return st, nil
}

func getFile(ctx context.Context, c Client, bucket, key, dst string) error {
	out, err := c.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get S3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to read S3 object body %s: %w", key, err)
	}
	log.Debugf("pulled %s", key)
	return f.Close()
}
