package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/landing/pkg/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Doc is the page document. Its head and body are rendered as is.
	Doc *dom.Document

	// Title is used when the document head has no <title>.
	Title string

	// Meta contains extra meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS styles.
	Styles []string

	// ClientScript is the path to the live client script.
	// Defaults to DefaultClientScript. "-" omits the script.
	ClientScript string

	// LiveURL is the WebSocket endpoint the client connects to.
	// Defaults to DefaultLiveURL. It may be absolute for static hosting.
	LiveURL string

	// Version identifies the content the page was rendered from. The
	// client sends it back when it connects, so the server builds the
	// session from the same content.
	Version string

	// Lang is the language attribute for the html element.
	// Defaults to the document's lang, then "en".
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if page.Doc == nil {
		return fmt.Errorf("render: page without document")
	}
	root := page.Doc.DocumentElement()
	if root == nil {
		return fmt.Errorf("render: document has no <html> element")
	}

	lang := page.Lang
	if lang == "" {
		lang = root.GetAttr("lang")
	}
	if lang == "" {
		lang = "en"
	}

	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}
	if err := r.renderOpenTag(w, root.Node(), html.Attribute{Key: "lang", Val: lang}); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	body := page.Doc.Body()
	if body == nil {
		return fmt.Errorf("render: document has no <body> element")
	}
	if err := r.renderOpenTag(w, body.Node()); err != nil {
		return err
	}
	if err := r.renderChildren(w, body.Node()); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}

	_, err := w.Write([]byte("</body>\n</html>\n"))
	return err
}

// RenderPageToString renders a complete HTML document.
func (r *Renderer) RenderPageToString(page PageData) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
		return err
	}

	head := page.Doc.Head()
	hasTitle := head != nil && head.Query("title") != nil
	if page.Title != "" && !hasTitle {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n",
			escapeAttr(r.config.Assets.Asset(href))); err != nil {
			return err
		}
	}

	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	if head != nil {
		for c := head.Node().FirstChild; c != nil; c = c.NextSibling {
			if duplicateHeadNode(c) {
				continue
			}
			if err := r.renderNode(w, c); err != nil {
				return err
			}
		}
	}

	_, err := w.Write([]byte("</head>\n"))
	return err
}

// duplicateHeadNode reports whether c repeats a tag renderHead writes itself.
func duplicateHeadNode(c *html.Node) bool {
	if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
		return false
	}
	for _, a := range c.Attr {
		if a.Key == "charset" || (a.Key == "name" && a.Val == "viewport") {
			return true
		}
	}
	return false
}

func renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := w.Write([]byte("  <meta")); err != nil {
		return err
	}
	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, escapeAttr(meta.Name)); err != nil {
			return err
		}
	}
	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, escapeAttr(meta.Property)); err != nil {
			return err
		}
	}
	if meta.Content != "" {
		if _, err := fmt.Fprintf(w, ` content="%s"`, escapeAttr(meta.Content)); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte(">\n"))
	return err
}

// renderClientScript injects the live client.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	clientPath := page.ClientScript
	if clientPath == "-" {
		return nil
	}
	if clientPath == "" {
		clientPath = DefaultClientScript
	}
	liveURL := page.LiveURL
	if liveURL == "" {
		liveURL = DefaultLiveURL
	}
	version := ""
	if page.Version != "" {
		version = ` data-version="` + escapeAttr(page.Version) + `"`
	}
	_, err := fmt.Fprintf(w, `<script src="%s" data-live="%s"%s defer></script>`+"\n",
		escapeAttr(r.config.Assets.Asset(clientPath)), escapeAttr(liveURL), version)
	return err
}
