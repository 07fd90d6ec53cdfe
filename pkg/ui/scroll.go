package ui

import (
	"strings"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// SmoothScroll handles same-page anchor links.
type SmoothScroll struct {
	doc *dom.Document
	win *browser.Window
	nav *Nav
}

func newSmoothScroll(doc *dom.Document, win *browser.Window, c Controls, nav *Nav) *SmoothScroll {
	s := &SmoothScroll{doc: doc, win: win, nav: nav}
	for _, a := range c.Anchors {
		a := a
		a.AddEventListener(dom.EventClick, func(ev *dom.Event) { s.onClick(a, ev) })
	}
	return s
}

func (s *SmoothScroll) onClick(a *dom.Element, ev *dom.Event) {
	target := s.Target(a)
	if target == nil || ev.DefaultPrevented() || ev.HasModifier() {
		return
	}
	ev.PreventDefault()
	s.nav.Close()
	target.ScrollIntoView(dom.ScrollOptions{Behavior: s.Behavior(), Block: "start"})
}

// Target returns the element an anchor points to, or nil for "#", empty
// and dangling links.
func (s *SmoothScroll) Target(a *dom.Element) *dom.Element {
	href := a.GetAttr("href")
	if href == "" || href == "#" || !strings.HasPrefix(href, "#") {
		return nil
	}
	return s.doc.GetElementByID(href[1:])
}

// Behavior returns the scroll behaviour for the user's motion preference.
func (s *SmoothScroll) Behavior() string {
	if s.win.PrefersReducedMotion() {
		return "auto"
	}
	return "smooth"
}
