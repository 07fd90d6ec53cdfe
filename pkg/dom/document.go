package dom

import (
	"fmt"
	"io"
	"strconv"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// LIDAttr is the attribute carrying an element's live ID in rendered markup.
const LIDAttr = "data-lid"

// Document is an in-memory HTML document with an event system, focus
// tracking and a mutation log.
//
// A Document is not safe for concurrent use. Callers serialize access,
// typically by running everything on one event loop.
type Document struct {
	Listeners

	root   *html.Node
	elems  map[*html.Node]*Element
	byLID  map[string]*Element
	active *Element

	patches   []Patch
	recording bool

	selectors map[string]cascadia.Selector
}

// Parse reads HTML markup and builds a Document from it.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return New(root), nil
}

// New wraps an HTML tree. Every element receives a live ID; elements that
// already carry a data-lid attribute keep it, so a page rendered from one
// Document and parsed into another addresses the same elements.
func New(root *html.Node) *Document {
	d := &Document{
		root:      root,
		elems:     make(map[*html.Node]*Element),
		byLID:     make(map[string]*Element),
		selectors: make(map[string]cascadia.Selector),
		recording: true,
	}
	var pending []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			el := &Element{node: n, doc: d}
			if lid, ok := el.Attr(LIDAttr); ok && lid != "" && d.byLID[lid] == nil {
				el.lid = lid
				d.byLID[lid] = el
			} else {
				pending = append(pending, el)
			}
			d.elems[n] = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	// Fresh ids skip the ones already carried by the markup.
	next := 0
	for _, el := range pending {
		for {
			next++
			if d.byLID[strconv.Itoa(next)] == nil {
				break
			}
		}
		el.lid = strconv.Itoa(next)
		el.setAttrRaw(LIDAttr, el.lid)
		d.byLID[el.lid] = el
	}
	return d
}

// Root returns the underlying HTML root node.
func (d *Document) Root() *html.Node { return d.root }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element { return d.Query("html") }

// Body returns the <body> element.
func (d *Document) Body() *Element { return d.Query("body") }

// Head returns the <head> element.
func (d *Document) Head() *Element { return d.Query("head") }

// ByLID returns the element with the given live ID, or nil.
func (d *Document) ByLID(lid string) *Element {
	el := d.byLID[lid]
	if el == nil || !el.IsConnected() {
		return nil
	}
	return el
}

// GetElementByID returns the first element with the given id attribute.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.walkElements(func(el *Element) bool {
		if el.ID() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Query returns the first element matching selector, or nil. An invalid
// selector matches nothing.
func (d *Document) Query(selector string) *Element {
	return d.query(d.root, selector, true)
}

// QueryAll returns all elements matching selector in document order.
func (d *Document) QueryAll(selector string) []*Element {
	return d.queryAll(d.root, selector, true)
}

// ActiveElement returns the focused element, falling back to <body>.
func (d *Document) ActiveElement() *Element {
	if d.active != nil && d.active.IsConnected() {
		return d.active
	}
	return d.Body()
}

// Focus moves focus to el and records a focus patch. It reports false and
// changes nothing when el cannot take focus.
func (d *Document) Focus(el *Element) bool {
	if el == nil || !el.IsFocusable() {
		return false
	}
	if d.active == el {
		return true
	}
	d.record(Patch{Op: PatchFocus, LID: el.lid})
	d.moveFocus(el)
	return true
}

// SetActive records that focus moved on the client. No patch is recorded.
// A nil el means focus left every element.
func (d *Document) SetActive(el *Element) {
	if d.active == el {
		return
	}
	d.moveFocus(el)
}

func (d *Document) moveFocus(el *Element) {
	prev := d.active
	d.active = el
	if prev != nil && prev.IsConnected() {
		d.Dispatch(prev, NewEvent(EventBlur))
		d.Dispatch(prev, NewEvent(EventFocusOut))
	}
	if el != nil {
		d.Dispatch(el, NewEvent(EventFocus))
		d.Dispatch(el, NewEvent(EventFocusIn))
	}
}

// Dispatch sends ev to target, then to its ancestors and finally the
// document if the event bubbles. A nil target fires document listeners only.
// Unless a listener prevents it, the default action runs afterwards.
func (d *Document) Dispatch(target *Element, ev *Event) {
	ev.Target = target
	for cur := target; cur != nil; cur = cur.Parent() {
		ev.CurrentTarget = cur
		cur.Fire(ev)
		if ev.stopped || !ev.Bubbles() {
			break
		}
	}
	ev.CurrentTarget = nil
	if target == nil || (!ev.stopped && ev.Bubbles()) {
		d.Fire(ev)
	}
	if !ev.defaultPrevented && !ev.NativeDefault {
		d.runDefault(ev)
	}
}

// TakePatches returns and clears the recorded mutations.
func (d *Document) TakePatches() []Patch {
	out := d.patches
	d.patches = nil
	return out
}

// PendingPatches returns the number of recorded, untaken mutations.
func (d *Document) PendingPatches() int { return len(d.patches) }

// SetRecording turns mutation recording on or off. Recording is on for new
// documents.
func (d *Document) SetRecording(on bool) { d.recording = on }

func (d *Document) record(p Patch) {
	if d.recording {
		d.patches = append(d.patches, p)
	}
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return d.elems[n]
}

func (d *Document) forget(n *html.Node) {
	if el := d.elems[n]; el != nil {
		delete(d.elems, n)
		delete(d.byLID, el.lid)
		if d.active == el {
			d.active = nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

func (d *Document) walkElements(fn func(*Element) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if el := d.wrap(n); el != nil {
			if !fn(el) {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(d.root)
}

func (d *Document) compile(selector string) cascadia.Selector {
	if sel, ok := d.selectors[selector]; ok {
		return sel
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		sel = nil
	}
	d.selectors[selector] = sel
	return sel
}

func (d *Document) query(root *html.Node, selector string, inclusive bool) *Element {
	all := d.queryAll(root, selector, inclusive)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func (d *Document) queryAll(root *html.Node, selector string, inclusive bool) []*Element {
	sel := d.compile(selector)
	if sel == nil {
		return nil
	}
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if el := d.wrap(c); el != nil && sel.Match(c) {
				out = append(out, el)
			}
			walk(c)
		}
	}
	if inclusive {
		if el := d.wrap(root); el != nil && sel.Match(root) {
			out = append(out, el)
		}
	}
	walk(root)
	return out
}
