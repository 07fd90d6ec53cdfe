// Package publish uploads a rendered site to an S3 bucket.
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/site"
	"github.com/vango-dev/landing/pkg/assets"
)

// ObjectPutter is the part of the S3 client used for publishing.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads bundles.
type Publisher struct {
	client       ObjectPutter
	bucket       string
	prefix       string
	cacheControl string
	dryRun       bool
	logger       *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// WithDryRun logs each object instead of uploading it.
func WithDryRun(dry bool) Option {
	return func(p *Publisher) { p.dryRun = dry }
}

// New returns a Publisher for cfg using client. A missing bucket is
// reported as E301.
func New(client ObjectPutter, cfg config.PublishConfig, opts ...Option) (*Publisher, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("E301")
	}
	p := &Publisher{
		client:       client,
		bucket:       cfg.Bucket,
		prefix:       strings.Trim(cfg.Prefix, "/"),
		cacheControl: cfg.CacheControl,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewClient builds an S3 client from cfg. Credentials come from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// variables.
func NewClient(cfg config.PublishConfig) *s3.Client {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type envCredentials struct{}

func (envCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	c := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("E302").WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set.")
	}
	return c, nil
}

// Object is one uploaded object.
type Object struct {
	Key         string
	ContentType string
	Size        int
}

// Key returns the object key for a site path.
func (p *Publisher) Key(sitePath string) string {
	return path.Join(p.prefix, strings.TrimPrefix(sitePath, "/"))
}

// Publish uploads every file of b followed by its manifest. The page is
// uploaded last so it never references assets that are not there yet.
func (p *Publisher) Publish(ctx context.Context, b *site.Bundle) ([]Object, error) {
	files := make([]site.File, 0, len(b.Files)+1)
	var pages []site.File
	for _, f := range b.Files {
		if strings.HasSuffix(f.Path, ".html") {
			pages = append(pages, f)
			continue
		}
		files = append(files, f)
	}
	if b.Manifest != nil {
		data, err := b.Manifest.Marshal()
		if err != nil {
			return nil, errors.New("E302").Wrap(err)
		}
		files = append(files, site.File{Path: "/" + assets.ManifestFile, ContentType: "application/json", Data: data})
	}
	files = append(files, pages...)

	out := make([]Object, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return out, errors.New("E302").Wrap(err)
		}
		obj := Object{Key: p.Key(f.Path), ContentType: f.ContentType, Size: len(f.Data)}
		if p.dryRun {
			p.logger.Info("would upload", "bucket", p.bucket, "key", obj.Key, "bytes", obj.Size)
			out = append(out, obj)
			continue
		}
		in := &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(obj.Key),
			Body:        bytes.NewReader(f.Data),
			ContentType: aws.String(f.ContentType),
		}
		if p.cacheControl != "" {
			in.CacheControl = aws.String(p.cacheControl)
		}
		if _, err := p.client.PutObject(ctx, in); err != nil {
			return out, errors.New("E302").Wrap(err).WithDetailf("Uploading s3://%s/%s failed.", p.bucket, obj.Key)
		}
		p.logger.Debug("uploaded", "bucket", p.bucket, "key", obj.Key, "bytes", obj.Size)
		out = append(out, obj)
	}
	p.logger.Info("published", "bucket", p.bucket, "prefix", p.prefix, "objects", len(out))
	return out, nil
}
