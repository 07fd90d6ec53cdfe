package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/site"
	"github.com/vango-dev/landing/pkg/assets"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q", out)
	}
}

func TestRender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	cfgPath := filepath.Join(t.TempDir(), "landing.yaml")

	if _, err := run(t, "--config", cfgPath, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run(t, "--config", cfgPath, "render", "-o", dir); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"index.html", "assets/site.css", "_live/client.js", assets.ManifestFile} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), site.StylesheetPath+"?v=") {
		t.Error("page should reference the versioned stylesheet")
	}
}

func TestRenderStatic(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "render", "-o", dir, "--static"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "_live", "client.js")); !os.IsNotExist(err) {
		t.Error("static render should not write the client")
	}
	page, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	if strings.Contains(string(page), "data-lid") {
		t.Error("static render should strip live ids")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landing.yaml")
	if _, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "--config", path, "config", "init")
	if errors.CodeOf(err) != "E104" {
		t.Fatalf("err = %v, want E104", err)
	}
	if _, err := run(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	t.Setenv("LANDING_SERVER_ADDR", ":5555")
	out, err := run(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "config", "show")
	if err == nil {
		t.Fatal("explicit missing config should fail")
	}
	if errors.CodeOf(err) != "E101" {
		t.Errorf("err = %v, want E101", err)
	}

	path := filepath.Join(t.TempDir(), "landing.yaml")
	if _, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, ":5555") {
		t.Errorf("output:\n%s", out)
	}
}

func TestPublishRequiresBucket(t *testing.T) {
	t.Setenv("LANDING_PUBLISH_BUCKET", "")
	_, err := run(t, "publish", "--dry-run")
	if errors.CodeOf(err) != "E301" {
		t.Fatalf("err = %v, want E301", err)
	}
}

func TestPublishDryRun(t *testing.T) {
	if _, err := run(t, "publish", "--bucket", "site", "--dry-run", "--log-level", "error"); err != nil {
		t.Fatalf("publish --dry-run: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		5 << 20: "5.0 MB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
