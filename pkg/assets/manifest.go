// Package assets maps asset paths to cache-busting versioned URLs.
//
// Versions are derived from content, so a changed stylesheet or client
// script gets a new URL while unchanged files stay cached:
//
//	m := assets.NewManifest()
//	m.Fingerprint("/assets/site.css", css) // "/assets/site.css?v=1a2b3c4d"
//	r := assets.NewResolver(m, "")
//	r.Asset("/assets/site.css")
//
// The static export writes the manifest next to the pages so a later
// publish run uploads the same versions.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// ManifestFile is the manifest's file name in an export directory.
const ManifestFile = "manifest.json"

// versionLength is the number of hex digits of the content hash kept.
const versionLength = 8

// Manifest maps source asset paths to versioned paths.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("assets: parse %s: %w", path, err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Marshal encodes the manifest as indented JSON with sorted keys.
func (m *Manifest) Marshal() ([]byte, error) {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.entries, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Version returns the content version of data.
func Version(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:versionLength]
}

// Fingerprint records path with a version query derived from data and
// returns the versioned path.
func (m *Manifest) Fingerprint(path string, data []byte) string {
	versioned := path + "?v=" + Version(data)
	m.Set(path, versioned)
	return versioned
}

// Resolve returns the versioned path for source, or source unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry in the manifest.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Sources returns the recorded source paths in sorted order.
func (m *Manifest) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
