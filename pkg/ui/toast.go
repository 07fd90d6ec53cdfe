package ui

import (
	"time"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 2600 * time.Millisecond

// Toast is the page's single notification surface.
type Toast struct {
	el    *dom.Element
	win   *browser.Window
	timer browser.Timer
}

func newToast(el *dom.Element, win *browser.Window) *Toast {
	return &Toast{el: el, win: win}
}

// Show displays message and restarts the dismiss timer.
func (t *Toast) Show(message string) {
	if t.el == nil {
		return
	}
	t.el.SetText(message)
	t.el.AddClass(ClassVisible)
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.win.SetTimeout(t.dismiss, ToastDuration)
}

func (t *Toast) dismiss() {
	t.timer = nil
	t.el.RemoveClass(ClassVisible)
}

// Visible reports whether the toast is showing.
func (t *Toast) Visible() bool {
	return t.el != nil && t.el.HasClass(ClassVisible)
}

// Message returns the current toast text.
func (t *Toast) Message() string {
	if t.el == nil {
		return ""
	}
	return t.el.TextContent()
}
