package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/landing/pkg/assets"
	"github.com/vango-dev/landing/pkg/dom"
	"golang.org/x/net/html"
)

// Default asset paths.
const (
	DefaultClientScript = "/_live/client.js"
	DefaultLiveURL      = "/_live/ws"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Assets resolves stylesheet and script paths, typically to
	// versioned URLs. Default: paths are used unchanged.
	Assets assets.Resolver

	// StripLIDs omits data-lid attributes. Pages rendered this way cannot
	// be driven by a live session.
	StripLIDs bool
}

// Renderer serializes dom documents to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Assets == nil {
		config.Assets = assets.NewPassthroughResolver("")
	}
	return &Renderer{config: config}
}

// RenderToString renders el and its subtree.
func (r *Renderer) RenderToString(el *dom.Element) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, el); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams el and its subtree to w.
func (r *Renderer) RenderToWriter(w io.Writer, el *dom.Element) error {
	if el == nil {
		return nil
	}
	return r.renderNode(w, el.Node())
}

func (r *Renderer) renderNode(w io.Writer, n *html.Node) error {
	if r.config.StripLIDs {
		n = stripLIDs(n)
	}
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("render: %s: %w", n.Data, err)
	}
	return nil
}

// renderChildren renders the children of n without n itself.
func (r *Renderer) renderChildren(w io.Writer, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := r.renderNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// renderOpenTag writes n's start tag with its attributes, overriding
// those named in extra.
func (r *Renderer) renderOpenTag(w io.Writer, n *html.Node, extra ...html.Attribute) error {
	if _, err := fmt.Fprintf(w, "<%s", n.Data); err != nil {
		return err
	}
	written := make(map[string]bool, len(extra))
	for _, a := range extra {
		written[a.Key] = true
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Key, escapeAttr(a.Val)); err != nil {
			return err
		}
	}
	for _, a := range n.Attr {
		if written[a.Key] || (r.config.StripLIDs && a.Key == dom.LIDAttr) {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Key, escapeAttr(a.Val)); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte(">"))
	return err
}

// stripLIDs returns a deep copy of n without data-lid attributes.
func stripLIDs(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	for _, a := range n.Attr {
		if a.Key != dom.LIDAttr {
			c.Attr = append(c.Attr, a)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(stripLIDs(child))
	}
	return c
}
