package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is an attribute passed to El.
type Attr struct {
	Key   string
	Value string
}

// A creates an attribute. Boolean attributes take an empty value.
func A(key, value string) Attr { return Attr{Key: key, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// Class sets the class attribute. Several Class arguments on one element
// are merged.
func Class(classes ...string) Attr { return A("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute: Data("modal", "request") → data-modal="request".
func Data(key, value string) Attr { return A("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return A("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return A("type", t) }

// Name sets the name attribute.
func Name(n string) Attr { return A("name", n) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return A("aria-label", label) }

// Text creates a text node.
func Text(content string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// El creates an element node. Arguments can be: nil, Attr, []Attr,
// *html.Node, []*html.Node or string (shorthand for a text child).
func El(tag string, args ...any) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			addAttr(n, v)
		case []Attr:
			for _, a := range v {
				addAttr(n, a)
			}
		case *html.Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*html.Node:
			for _, c := range v {
				if c != nil {
					n.AppendChild(c)
				}
			}
		case string:
			n.AppendChild(Text(v))
		}
	}
	return n
}

func addAttr(n *html.Node, a Attr) {
	if a.Key == "" {
		return
	}
	for i, cur := range n.Attr {
		if cur.Key != a.Key {
			continue
		}
		if a.Key == "class" && cur.Val != "" && a.Value != "" {
			n.Attr[i].Val = cur.Val + " " + a.Value
		} else {
			n.Attr[i].Val = a.Value
		}
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
}

// HTMLDocument wraps an <html> element in a document node with an HTML5
// doctype, ready to pass to New.
func HTMLDocument(root *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	return doc
}
