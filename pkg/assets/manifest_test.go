package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	m := NewManifest()
	a := m.Fingerprint("/assets/site.css", []byte("body{}"))
	if !strings.HasPrefix(a, "/assets/site.css?v=") || len(a) != len("/assets/site.css?v=")+versionLength {
		t.Fatalf("Fingerprint = %q", a)
	}
	if got := m.Resolve("/assets/site.css"); got != a {
		t.Errorf("Resolve = %q, want %q", got, a)
	}

	if b := m.Fingerprint("/assets/site.css", []byte("body{}")); b != a {
		t.Errorf("same content produced %q and %q", a, b)
	}
	if c := m.Fingerprint("/assets/site.css", []byte("body{color:red}")); c == a {
		t.Error("changed content kept its version")
	}
}

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("/_live/client.js", "/_live/client.js?v=abc")

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"found entry", "/_live/client.js", "/_live/client.js?v=abc"},
		{"missing entry returns original", "/unknown.js", "/unknown.js"},
		{"empty string returns empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.source); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
	if !m.Has("/_live/client.js") || m.Has("/unknown.js") {
		t.Error("Has disagrees with entries")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	m := NewManifest()
	m.Set("/b.js", "/b.js?v=2")
	m.Set("/a.css", "/a.css?v=1")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 || loaded.Resolve("/a.css") != "/a.css?v=1" {
		t.Errorf("loaded %v", loaded.Sources())
	}
	if got := strings.Join(loaded.Sources(), ","); got != "/a.css,/b.js" {
		t.Errorf("Sources = %s", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestResolvers(t *testing.T) {
	m := NewManifest()
	m.Set("/assets/site.css", "/assets/site.css?v=1")

	if got := NewResolver(m, "https://cdn.example.com").Asset("/assets/site.css"); got != "https://cdn.example.com/assets/site.css?v=1" {
		t.Errorf("manifest resolver = %q", got)
	}
	if got := NewPassthroughResolver("").Asset("/assets/site.css"); got != "/assets/site.css" {
		t.Errorf("passthrough resolver = %q", got)
	}
}
