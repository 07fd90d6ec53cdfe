package ui

import (
	"strconv"

	"github.com/vango-dev/landing/pkg/dom"
)

// Nav is the mobile navigation menu.
type Nav struct {
	nav    *dom.Element
	button *dom.Element
}

func newNav(doc *dom.Document, c Controls) *Nav {
	n := &Nav{nav: c.Nav, button: c.MenuButton}
	if n.button != nil {
		n.button.SetAttr("aria-expanded", "false")
		n.button.AddEventListener(dom.EventClick, func(*dom.Event) { n.Toggle() })
	}
	for _, link := range c.NavLinks {
		link.AddEventListener(dom.EventClick, func(*dom.Event) { n.Close() })
	}
	doc.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		if n.nav == nil || n.button == nil || !n.IsOpen() || ev.Target == nil {
			return
		}
		if n.nav.Contains(ev.Target) || n.button.Contains(ev.Target) {
			return
		}
		n.Close()
	})
	return n
}

// Toggle flips the menu and mirrors the state into aria-expanded. It needs
// both the nav and the menu button.
func (n *Nav) Toggle() {
	if n.nav == nil || n.button == nil {
		return
	}
	next := !n.IsOpen()
	n.nav.ToggleClass(ClassOpen, next)
	n.button.SetAttr("aria-expanded", strconv.FormatBool(next))
}

// Open opens the menu.
func (n *Nav) Open() {
	if n.nav == nil {
		return
	}
	n.nav.AddClass(ClassOpen)
	if n.button != nil {
		n.button.SetAttr("aria-expanded", "true")
	}
}

// Close closes the menu.
func (n *Nav) Close() {
	if n.nav == nil {
		return
	}
	n.nav.RemoveClass(ClassOpen)
	if n.button != nil {
		n.button.SetAttr("aria-expanded", "false")
	}
}

// IsOpen reports whether the menu is open.
func (n *Nav) IsOpen() bool {
	return n.nav != nil && n.nav.HasClass(ClassOpen)
}
