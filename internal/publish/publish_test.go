package publish

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/logging"
	"github.com/vango-dev/landing/internal/site"
)

type putCall struct {
	bucket       string
	key          string
	contentType  string
	cacheControl string
	body         string
}

type fakePutter struct {
	mu     sync.Mutex
	calls  []putCall
	failOn string
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if f.failOn != "" && strings.HasSuffix(key, f.failOn) {
		return nil, fmt.Errorf("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, putCall{
		bucket:       aws.ToString(in.Bucket),
		key:          key,
		contentType:  aws.ToString(in.ContentType),
		cacheControl: aws.ToString(in.CacheControl),
		body:         string(body),
	})
	return &s3.PutObjectOutput{}, nil
}

func testBundle(t *testing.T) *site.Bundle {
	t.Helper()
	b, err := site.Build(site.DefaultContent(), site.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(&fakePutter{}, config.PublishConfig{})
	if errors.CodeOf(err) != "E301" {
		t.Fatalf("err = %v, want E301", err)
	}
}

func TestKey(t *testing.T) {
	p, err := New(&fakePutter{}, config.PublishConfig{Bucket: "b", Prefix: "/www/"})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Key("/assets/site.css"); got != "www/assets/site.css" {
		t.Errorf("Key = %q", got)
	}

	p, _ = New(&fakePutter{}, config.PublishConfig{Bucket: "b"})
	if got := p.Key("/index.html"); got != "index.html" {
		t.Errorf("Key without prefix = %q", got)
	}
}

func TestPublishUploadsPageLast(t *testing.T) {
	fake := &fakePutter{}
	p, err := New(fake, config.PublishConfig{
		Bucket:       "site",
		Prefix:       "www",
		CacheControl: "public, max-age=60",
	}, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}

	b := testBundle(t)
	objs, err := p.Publish(context.Background(), b)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(objs) != len(b.Files)+1 {
		t.Fatalf("uploaded %d objects, want %d", len(objs), len(b.Files)+1)
	}
	if len(fake.calls) != len(objs) {
		t.Fatalf("PutObject called %d times", len(fake.calls))
	}

	last := fake.calls[len(fake.calls)-1]
	if last.key != "www/index.html" {
		t.Errorf("last key = %q, want www/index.html", last.key)
	}
	if !strings.HasPrefix(last.contentType, "text/html") {
		t.Errorf("page content type = %q", last.contentType)
	}

	keys := map[string]putCall{}
	for _, c := range fake.calls {
		if c.bucket != "site" {
			t.Errorf("bucket = %q", c.bucket)
		}
		if c.cacheControl != "public, max-age=60" {
			t.Errorf("cache control = %q", c.cacheControl)
		}
		keys[c.key] = c
	}
	if _, ok := keys["www/assets/site.css"]; !ok {
		t.Errorf("stylesheet not uploaded: %v", keys)
	}
	manifest, ok := keys["www/manifest.json"]
	if !ok {
		t.Fatalf("manifest not uploaded: %v", keys)
	}
	if !strings.Contains(manifest.body, site.StylesheetPath) {
		t.Errorf("manifest body = %s", manifest.body)
	}
}

func TestPublishDryRun(t *testing.T) {
	fake := &fakePutter{}
	p, _ := New(fake, config.PublishConfig{Bucket: "site"}, WithDryRun(true), WithLogger(logging.Discard()))

	objs, err := p.Publish(context.Background(), testBundle(t))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(objs) == 0 {
		t.Fatal("dry run should still list objects")
	}
	if len(fake.calls) != 0 {
		t.Errorf("dry run uploaded %d objects", len(fake.calls))
	}
}

func TestPublishUploadError(t *testing.T) {
	fake := &fakePutter{failOn: "site.css"}
	p, _ := New(fake, config.PublishConfig{Bucket: "site"}, WithLogger(logging.Discard()))

	_, err := p.Publish(context.Background(), testBundle(t))
	if errors.CodeOf(err) != "E302" {
		t.Fatalf("err = %v, want E302", err)
	}
	for _, c := range fake.calls {
		if c.key == "index.html" {
			t.Error("page must not be uploaded after an asset failed")
		}
	}
}

func TestPublishCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakePutter{}
	p, _ := New(fake, config.PublishConfig{Bucket: "site"}, WithLogger(logging.Discard()))
	if _, err := p.Publish(ctx, testBundle(t)); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if len(fake.calls) != 0 {
		t.Errorf("uploaded %d objects after cancel", len(fake.calls))
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := (envCredentials{}).Retrieve(context.Background()); err == nil {
		t.Error("expected error without credentials")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	c, err := (envCredentials{}).Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.AccessKeyID != "AKID" || c.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", c)
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(config.PublishConfig{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := c.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" || !opts.UsePathStyle {
		t.Errorf("endpoint options = %v %v", aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}
}
