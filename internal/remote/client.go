// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/clintmod/macprefs/internal/log"
)

// Client is the subset of *s3.Client used by Push and Pull.
type Client interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
}

var _ Client = (*s3v2.Client)(nil)

type options struct {
	profile   string
	region    string
	endpoint  string
	pathStyle bool
	retryer   func() awsv2.Retryer
}

// Option customizes Connect. With no options the shell's AWS setup is used
// as is.
type Option func(*options)

// WithProfile selects a shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion overrides the region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points the client at an S3 compatible service such as MinIO.
// Path style addressing is turned on with it.
func WithEndpoint(url string) Option {
	return func(o *options) {
		o.endpoint = url
		o.pathStyle = url != ""
	}
}

// WithRetryer injects a custom retryer; SDK defaults are used otherwise.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// loadOptions turns o into SDK config loaders and S3 client options.
func (o options) loadOptions() ([]func(*config.LoadOptions) error, []func(*s3v2.Options)) {
	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	var s3Opts []func(*s3v2.Options)
	if o.endpoint != "" {
		endpoint, pathStyle := o.endpoint, o.pathStyle
		s3Opts = append(s3Opts, func(so *s3v2.Options) {
			so.BaseEndpoint = awsv2.String(endpoint)
			so.UsePathStyle = pathStyle
		})
	}
	return loadOpts, s3Opts
}

// Connect loads AWS config and returns an S3 client.
func Connect(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("remote opts: profile=%s, region=%s, endpoint=%s", o.profile, o.region, o.endpoint)

	loadOpts, s3Opts := o.loadOptions()
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3v2.NewFromConfig(cfg, s3Opts...)
	log.Debugf("s3 client created: region=%s", cfg.Region)
	return client, nil
}
