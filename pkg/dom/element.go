package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Rect is an element's layout box relative to the viewport, as reported
// by getBoundingClientRect on the client.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns Left + Width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// ScrollOptions mirrors the scrollIntoView options dictionary.
type ScrollOptions struct {
	Behavior string // "auto" or "smooth"
	Block    string // "start", "center", "end" or "nearest"
}

// Element is an element node of a Document. All mutations made through
// Element are recorded as patches on the owning document.
type Element struct {
	Listeners

	node *html.Node
	doc  *Document
	lid  string

	value    string
	hasValue bool
	rect     Rect
	hasRect  bool
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// LID returns the element's live ID.
func (e *Element) LID() string { return e.lid }

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// ID returns the id attribute.
func (e *Element) ID() string { return e.GetAttr("id") }

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the value of the named attribute, or "" when absent.
func (e *Element) GetAttr(key string) string {
	v, _ := e.Attr(key)
	return v
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttr sets the named attribute. Setting an attribute to its current
// value records nothing.
func (e *Element) SetAttr(key, value string) {
	if cur, ok := e.Attr(key); ok && cur == value {
		return
	}
	e.setAttrRaw(key, value)
	e.doc.record(Patch{Op: PatchSetAttr, LID: e.lid, Key: key, Value: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(key string) {
	if !e.removeAttrRaw(key) {
		return
	}
	e.doc.record(Patch{Op: PatchRemoveAttr, LID: e.lid, Key: key})
}

func (e *Element) setAttrRaw(key, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: value})
}

func (e *Element) removeAttrRaw(key string) bool {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports whether name is in the class list.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds name to the class list.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.setAttrRaw("class", strings.Join(append(e.Classes(), name), " "))
	e.doc.record(Patch{Op: PatchAddClass, LID: e.lid, Key: name})
}

// RemoveClass removes name from the class list.
func (e *Element) RemoveClass(name string) {
	classes := e.Classes()
	kept := classes[:0]
	found := false
	for _, c := range classes {
		if c == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	e.setAttrRaw("class", strings.Join(kept, " "))
	e.doc.record(Patch{Op: PatchRemoveClass, LID: e.lid, Key: name})
}

// ToggleClass adds name when on is true and removes it otherwise.
func (e *Element) ToggleClass(name string, on bool) {
	if on {
		e.AddClass(name)
	} else {
		e.RemoveClass(name)
	}
}

// TextContent returns the concatenated text of all descendant text nodes.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			} else {
				walk(c)
			}
		}
	}
	walk(e.node)
	return b.String()
}

// SetText replaces the element's children with a single text node.
// Only elements without element children should be used as text surfaces.
func (e *Element) SetText(text string) {
	if e.TextContent() == text {
		return
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			e.doc.forget(c)
		}
		e.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	e.doc.record(Patch{Op: PatchSetText, LID: e.lid, Value: text})
}

// DefaultValue returns the value a form control resets to: the value
// attribute for inputs and the text content for textareas.
func (e *Element) DefaultValue() string {
	if e.Tag() == "textarea" {
		return e.TextContent()
	}
	return e.GetAttr("value")
}

// Value returns the current value of a form control.
func (e *Element) Value() string {
	if e.hasValue {
		return e.value
	}
	return e.DefaultValue()
}

// SetValue sets the control's value and records a patch.
func (e *Element) SetValue(v string) {
	if e.Value() == v {
		return
	}
	e.value, e.hasValue = v, true
	e.doc.record(Patch{Op: PatchSetValue, LID: e.lid, Value: v})
}

// SyncValue stores a value that already changed on the client. Nothing is
// recorded.
func (e *Element) SyncValue(v string) {
	e.value, e.hasValue = v, true
}

// Name returns the name attribute.
func (e *Element) Name() string { return e.GetAttr("name") }

// Rect returns the last reported layout box.
func (e *Element) Rect() (Rect, bool) { return e.rect, e.hasRect }

// SetRect stores a layout box reported by the client.
func (e *Element) SetRect(r Rect) {
	e.rect, e.hasRect = r, true
}

// Parent returns the nearest element ancestor, or nil at the root.
func (e *Element) Parent() *Element {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if el := e.doc.wrap(n); el != nil {
			return el
		}
	}
	return nil
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if el := e.doc.wrap(c); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// IsConnected reports whether the element is still attached to the document.
func (e *Element) IsConnected() bool {
	if e.doc == nil {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Matches reports whether the element matches the CSS selector.
func (e *Element) Matches(selector string) bool {
	sel := e.doc.compile(selector)
	return sel != nil && sel.Match(e.node)
}

// Closest returns the nearest inclusive ancestor matching selector.
func (e *Element) Closest(selector string) *Element {
	sel := e.doc.compile(selector)
	if sel == nil {
		return nil
	}
	for cur := e; cur != nil; cur = cur.Parent() {
		if sel.Match(cur.node) {
			return cur
		}
	}
	return nil
}

// Query returns the first descendant matching selector.
func (e *Element) Query(selector string) *Element {
	return e.doc.query(e.node, selector, false)
}

// QueryAll returns all descendants matching selector in document order.
func (e *Element) QueryAll(selector string) []*Element {
	return e.doc.queryAll(e.node, selector, false)
}

// Focus moves focus to the element if it is focusable.
func (e *Element) Focus() bool { return e.doc.Focus(e) }

// ScrollIntoView records a request to scroll the element into view.
func (e *Element) ScrollIntoView(opts ScrollOptions) {
	if opts.Behavior == "" {
		opts.Behavior = "auto"
	}
	if opts.Block == "" {
		opts.Block = "start"
	}
	e.doc.record(Patch{Op: PatchScrollIntoView, LID: e.lid, Key: opts.Block, Value: opts.Behavior})
}
