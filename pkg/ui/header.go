package ui

import (
	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// ScrolledOffset is the scroll offset above which the header is marked
// scrolled.
const ScrolledOffset = 6

// Header marks the sticky header once the page is scrolled.
type Header struct {
	el  *dom.Element
	win *browser.Window
}

func newHeader(el *dom.Element, win *browser.Window) *Header {
	h := &Header{el: el, win: win}
	h.Update()
	win.AddEventListener(dom.EventScroll, func(*dom.Event) { h.Update() })
	return h
}

// Update syncs the scrolled state with the current scroll offset.
func (h *Header) Update() {
	if h.el == nil {
		return
	}
	h.el.ToggleClass(ClassScrolled, h.win.ScrollY() > ScrolledOffset)
}

// Scrolled reports whether the header carries the scrolled state.
func (h *Header) Scrolled() bool {
	return h.el != nil && h.el.HasClass(ClassScrolled)
}
