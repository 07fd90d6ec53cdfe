package dom

import (
	"sort"
	"strconv"
	"strings"
)

// IsFocusable reports whether the element can receive focus: it is
// connected, not disabled, not inside a hidden or inert subtree, and is
// either natively focusable or carries a tabindex.
func (e *Element) IsFocusable() bool {
	if !e.IsConnected() || e.inHiddenOrInert() {
		return false
	}
	switch e.Tag() {
	case "button", "select", "textarea", "input":
		if e.HasAttr("disabled") {
			return false
		}
		if e.Tag() == "input" && strings.EqualFold(e.GetAttr("type"), "hidden") {
			return false
		}
		return true
	case "a", "area":
		if e.HasAttr("href") {
			return true
		}
	}
	if e.HasAttr("tabindex") {
		return true
	}
	if v, ok := e.Attr("contenteditable"); ok && v != "false" {
		return true
	}
	return false
}

// TabIndex returns the effective tab index: the parsed tabindex attribute,
// 0 for natively focusable elements and -1 otherwise.
func (e *Element) TabIndex() int {
	if v, ok := e.Attr("tabindex"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	if e.IsFocusable() {
		return 0
	}
	return -1
}

// IsTabbable reports whether sequential keyboard navigation reaches the
// element. Subtrees marked aria-hidden="true" are skipped as well, so the
// aria-hidden fallback for inert behaves like inert for Tab.
func (e *Element) IsTabbable() bool {
	if !e.IsFocusable() || e.TabIndex() < 0 {
		return false
	}
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.GetAttr("aria-hidden") == "true" {
			return false
		}
	}
	return true
}

func (e *Element) inHiddenOrInert() bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.HasAttr("inert") || cur.HasAttr("hidden") {
			return true
		}
		if strings.TrimSpace(cur.Style("display")) == "none" {
			return true
		}
	}
	return false
}

// Tabbables returns the tabbable elements under root in sequential
// navigation order: positive tab indexes ascending, then document order.
func (d *Document) Tabbables(root *Element) []*Element {
	var all []*Element
	if root == nil {
		d.walkElements(func(el *Element) bool {
			if el.IsTabbable() {
				all = append(all, el)
			}
			return true
		})
	} else {
		for _, el := range root.QueryAll("*") {
			if el.IsTabbable() {
				all = append(all, el)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		ti, tj := all[i].TabIndex(), all[j].TabIndex()
		if ti > 0 && tj > 0 {
			return ti < tj
		}
		return ti > 0 && tj == 0
	})
	return all
}

// runDefault performs the built-in behaviour of an event nobody cancelled.
func (d *Document) runDefault(ev *Event) {
	if ev.Type == EventKeyDown && ev.Key == "Tab" && !ev.CtrlKey && !ev.MetaKey && !ev.AltKey {
		d.focusNext(ev.ShiftKey)
	}
}

// focusNext moves focus one step in sequential navigation order, wrapping
// at either end.
func (d *Document) focusNext(backward bool) {
	order := d.Tabbables(nil)
	if len(order) == 0 {
		return
	}
	idx := -1
	active := d.ActiveElement()
	for i, el := range order {
		if el == active {
			idx = i
			break
		}
	}
	var next *Element
	switch {
	case idx < 0 && backward:
		next = order[len(order)-1]
	case idx < 0:
		next = order[0]
	case backward:
		next = order[(idx-1+len(order))%len(order)]
	default:
		next = order[(idx+1)%len(order)]
	}
	d.Focus(next)
}
