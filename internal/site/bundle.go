package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	clientdist "github.com/vango-dev/landing/client/dist"
	"github.com/vango-dev/landing/pkg/assets"
	"github.com/vango-dev/landing/pkg/render"
)

// Asset paths shared by the server and the static export.
const (
	StylesheetPath = "/assets/site.css"
	ClientPath     = render.DefaultClientScript
	IndexPath      = "/index.html"
)

//go:embed site.css
var stylesheet []byte

// Stylesheet returns the page stylesheet.
func Stylesheet() []byte { return stylesheet }

// File is one file of a rendered site.
type File struct {
	// Path is the URL path, starting with "/".
	Path        string
	ContentType string
	Data        []byte
}

// Bundle is the complete static site.
type Bundle struct {
	Files    []File
	Manifest *assets.Manifest
}

// Options configures Build.
type Options struct {
	// LiveURL is the WebSocket endpoint the page connects to.
	LiveURL string

	// AssetPrefix is prepended to asset URLs, for example a CDN origin.
	AssetPrefix string

	// Static drops live ids and the client script. The page then works
	// as plain HTML without interactions.
	Static bool
}

// Manifest returns the versioned asset paths for the embedded assets.
func Manifest() *assets.Manifest {
	m := assets.NewManifest()
	m.Fingerprint(StylesheetPath, stylesheet)
	m.Fingerprint(ClientPath, clientdist.LiveJS)
	return m
}

// PageData returns the render input for a fresh document of c.
func PageData(c Content, opts Options) render.PageData {
	p := render.PageData{
		Doc:         NewDocument(c),
		Title:       c.Title,
		Lang:        c.Lang,
		StyleSheets: []string{StylesheetPath},
		LiveURL:     opts.LiveURL,
	}
	if opts.Static {
		p.ClientScript = "-"
	} else {
		p.Version = c.Version()
	}
	return p
}

// Build renders c with its assets.
func Build(c Content, opts Options) (*Bundle, error) {
	m := Manifest()
	r := render.NewRenderer(render.RendererConfig{
		Assets:    assets.NewResolver(m, opts.AssetPrefix),
		StripLIDs: opts.Static,
	})
	var page bytes.Buffer
	if err := r.RenderPage(&page, PageData(c, opts)); err != nil {
		return nil, fmt.Errorf("site: render page: %w", err)
	}

	b := &Bundle{
		Manifest: m,
		Files: []File{
			{Path: IndexPath, ContentType: "text/html; charset=utf-8", Data: page.Bytes()},
			{Path: StylesheetPath, ContentType: "text/css; charset=utf-8", Data: stylesheet},
		},
	}
	if !opts.Static {
		b.Files = append(b.Files, File{Path: ClientPath, ContentType: "text/javascript; charset=utf-8", Data: clientdist.LiveJS})
	}
	return b, nil
}

// Export writes the bundle and its manifest under dir.
func (b *Bundle) Export(dir string) ([]string, error) {
	written := make([]string, 0, len(b.Files)+1)
	for _, f := range b.Files {
		dst := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(f.Path, "/")))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	mpath := filepath.Join(dir, assets.ManifestFile)
	if err := b.Manifest.Save(mpath); err != nil {
		return written, err
	}
	return append(written, mpath), nil
}
