package ui

import (
	"log/slog"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// focusCandidates selects the elements a modal may focus on open.
const focusCandidates = `input, textarea, select, button, [href], [tabindex]:not([tabindex="-1"])`

// backgroundTags are the body regions hidden from interaction while a
// modal is open.
var backgroundTags = map[string]bool{"header": true, "main": true, "footer": true}

type hiddenRegion struct {
	el      *dom.Element
	native  bool
	hadAria bool
	aria    string
}

// Modals opens and closes [data-modal] dialogs. Only one focus trap and
// one return-focus target are tracked: opening a second modal replaces
// them without closing the first.
type Modals struct {
	doc      *dom.Document
	win      *browser.Window
	controls Controls
	logger   *slog.Logger

	lastActive *dom.Element
	trap       *dom.Listener
	background []hiddenRegion
}

func newModals(doc *dom.Document, win *browser.Window, c Controls, logger *slog.Logger) *Modals {
	m := &Modals{doc: doc, win: win, controls: c, logger: logger}

	for _, opener := range c.Openers {
		opener := opener
		opener.AddEventListener(dom.EventClick, func(*dom.Event) {
			if name := opener.GetAttr("data-open-modal"); name != "" {
				m.Open(name)
			}
		})
	}
	for _, modal := range c.Modals {
		modal := modal
		modal.AddEventListener(dom.EventClick, func(ev *dom.Event) {
			if ev.Target == nil {
				return
			}
			closer := ev.Target.Closest(selCloseModal)
			if closer == nil || !modal.Contains(closer) {
				return
			}
			if name := modal.GetAttr("data-modal"); name != "" {
				m.Close(name)
			}
		})
	}
	doc.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key != "Escape" {
			return
		}
		if open := m.firstOpen(); open != nil {
			if name := open.GetAttr("data-modal"); name != "" {
				m.Close(name)
			}
		}
	})
	return m
}

// Open shows the modal named name. It reports false if there is no such
// modal.
func (m *Modals) Open(name string) bool {
	return m.show(name, true)
}

// Resume reinstalls the background lock and focus trap of a modal the
// client already shows open, as after a reconnect. Focus stays where it
// is and there is no element to return focus to on close.
func (m *Modals) Resume(name string) bool {
	return m.show(name, false)
}

func (m *Modals) show(name string, focus bool) bool {
	modal := m.controls.Modal(name)
	if modal == nil {
		return false
	}
	if focus {
		m.lastActive = m.doc.ActiveElement()
	}
	modal.AddClass(ClassOpen)
	modal.SetAttr("aria-hidden", "false")
	m.hideBackground(modal)
	if m.controls.Body != nil {
		m.controls.Body.SetStyle("overflow", "hidden")
	}
	if focus {
		m.focusInitial(modal)
	}

	if m.trap != nil {
		m.trap.Remove()
	}
	m.trap = m.doc.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		m.trapFocus(modal, ev)
	})
	m.logger.Debug("modal opened", "name", name, "resumed", !focus)
	return true
}

// Close hides the modal named name and returns focus to the element that
// was active when a modal was last opened. It reports false if there is no
// such modal.
func (m *Modals) Close(name string) bool {
	modal := m.controls.Modal(name)
	if modal == nil {
		return false
	}
	modal.RemoveClass(ClassOpen)
	modal.SetAttr("aria-hidden", "true")
	m.restoreBackground()
	if m.controls.Body != nil {
		m.controls.Body.RemoveStyle("overflow")
	}
	if m.trap != nil {
		m.trap.Remove()
		m.trap = nil
	}
	if last := m.lastActive; last != nil {
		m.lastActive = nil
		if last.IsConnected() && last.IsFocusable() {
			last.Focus()
		}
	}
	m.logger.Debug("modal closed", "name", name)
	return true
}

// IsOpen reports whether the modal named name is open.
func (m *Modals) IsOpen(name string) bool {
	modal := m.controls.Modal(name)
	return modal != nil && modal.HasClass(ClassOpen)
}

// Trapping reports whether a focus trap is installed.
func (m *Modals) Trapping() bool { return m.trap != nil }

func (m *Modals) firstOpen() *dom.Element {
	for _, modal := range m.controls.Modals {
		if modal.HasClass(ClassOpen) {
			return modal
		}
	}
	return nil
}

func (m *Modals) hideBackground(modal *dom.Element) {
	m.restoreBackground()
	body := m.controls.Body
	if body == nil {
		return
	}
	native := m.win.Features().Inert
	for _, region := range body.Children() {
		if !backgroundTags[region.Tag()] || region.Contains(modal) {
			continue
		}
		h := hiddenRegion{el: region, native: native}
		if native {
			region.SetAttr("inert", "")
		} else {
			h.aria, h.hadAria = region.Attr("aria-hidden")
			region.SetAttr("aria-hidden", "true")
		}
		m.background = append(m.background, h)
	}
}

func (m *Modals) restoreBackground() {
	for _, h := range m.background {
		switch {
		case h.native:
			h.el.RemoveAttr("inert")
		case h.hadAria:
			h.el.SetAttr("aria-hidden", h.aria)
		default:
			h.el.RemoveAttr("aria-hidden")
		}
	}
	m.background = nil
}

func (m *Modals) focusInitial(modal *dom.Element) {
	for _, el := range modal.QueryAll(focusCandidates) {
		if el.IsFocusable() {
			el.Focus()
			return
		}
	}
	target := modal.Query(selModalDialog)
	if target == nil {
		target = modal
	}
	if !target.HasAttr("tabindex") {
		target.SetAttr("tabindex", "-1")
	}
	target.Focus()
}

// trapFocus wraps Tab and Shift+Tab around the modal's tabbable elements.
func (m *Modals) trapFocus(modal *dom.Element, ev *dom.Event) {
	if ev.Key != "Tab" {
		return
	}
	order := m.doc.Tabbables(modal)
	if len(order) == 0 {
		ev.PreventDefault()
		return
	}
	first, last := order[0], order[len(order)-1]
	active := m.doc.ActiveElement()
	inside := modal.Contains(active)
	if ev.ShiftKey {
		if active == first || !inside {
			ev.PreventDefault()
			last.Focus()
		}
		return
	}
	if active == last || !inside {
		ev.PreventDefault()
		first.Focus()
	}
}
