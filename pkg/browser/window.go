package browser

import (
	"time"

	"github.com/vango-dev/landing/pkg/dom"
)

// Features lists the optional platform capabilities of the client.
type Features struct {
	// IntersectionObserver reports whether intersection observation exists.
	IntersectionObserver bool `json:"intersectionObserver"`

	// Inert reports whether the native inert attribute is supported.
	Inert bool `json:"inert"`
}

// Viewport is the size of the layout viewport in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options configures a Window.
type Options struct {
	Viewport      Viewport
	ScrollY       float64
	ReducedMotion bool
	Features      Features
}

// DefaultOptions returns a desktop-sized viewport with every feature
// available and motion allowed.
func DefaultOptions() Options {
	return Options{
		Viewport: Viewport{Width: 1280, Height: 800},
		Features: Features{IntersectionObserver: true, Inert: true},
	}
}

// Window is the page's browsing environment: scroll position, viewport,
// user preferences, timers and animation frames. Scroll and resize events
// are fired on the window itself.
type Window struct {
	dom.Listeners

	doc   *dom.Document
	sched Scheduler

	scrollY       float64
	viewport      Viewport
	reducedMotion bool
	features      Features

	observers    []*IntersectionObserver
	checkPending bool
}

// New creates a Window for doc.
func New(doc *dom.Document, sched Scheduler, opts Options) *Window {
	return &Window{
		doc:           doc,
		sched:         sched,
		scrollY:       opts.ScrollY,
		viewport:      opts.Viewport,
		reducedMotion: opts.ReducedMotion,
		features:      opts.Features,
	}
}

// Document returns the window's document.
func (w *Window) Document() *dom.Document { return w.doc }

// Scheduler returns the window's scheduler.
func (w *Window) Scheduler() Scheduler { return w.sched }

// ScrollY returns the vertical scroll offset.
func (w *Window) ScrollY() float64 { return w.scrollY }

// InnerWidth returns the viewport width.
func (w *Window) InnerWidth() float64 { return w.viewport.Width }

// InnerHeight returns the viewport height.
func (w *Window) InnerHeight() float64 { return w.viewport.Height }

// PrefersReducedMotion reports the (prefers-reduced-motion: reduce) media query.
func (w *Window) PrefersReducedMotion() bool { return w.reducedMotion }

// Features returns the client's capabilities.
func (w *Window) Features() Features { return w.features }

// SetTimeout runs fn once after d.
func (w *Window) SetTimeout(fn func(), d time.Duration) Timer {
	return w.sched.AfterFunc(d, fn)
}

// RequestAnimationFrame runs fn before the next frame.
func (w *Window) RequestAnimationFrame(fn func()) FrameID {
	return w.sched.RequestFrame(fn)
}

// CancelAnimationFrame cancels a pending frame request.
func (w *Window) CancelAnimationFrame(id FrameID) {
	w.sched.CancelFrame(id)
}

// ScrollTo records a new scroll offset and fires a scroll event.
func (w *Window) ScrollTo(y float64) {
	w.scrollY = y
	w.Fire(dom.NewEvent(dom.EventScroll))
	w.scheduleIntersectionCheck()
}

// Resize records a new viewport size and fires a resize event.
func (w *Window) Resize(vp Viewport) {
	w.viewport = vp
	w.Fire(dom.NewEvent(dom.EventResize))
	w.scheduleIntersectionCheck()
}

// LayoutChanged tells intersection observers that element rects changed.
func (w *Window) LayoutChanged() {
	w.scheduleIntersectionCheck()
}

// NewIntersectionObserver creates an observer rooted at the viewport. It
// returns false when the client lacks the capability.
func (w *Window) NewIntersectionObserver(cb IntersectionCallback, opts ObserverOptions) (*IntersectionObserver, bool) {
	if !w.features.IntersectionObserver {
		return nil, false
	}
	o := newIntersectionObserver(w, cb, opts)
	w.observers = append(w.observers, o)
	return o, true
}

func (w *Window) removeObserver(o *IntersectionObserver) {
	for i, cur := range w.observers {
		if cur == o {
			w.observers = append(w.observers[:i], w.observers[i+1:]...)
			return
		}
	}
}

// scheduleIntersectionCheck coalesces observer updates into one per frame.
func (w *Window) scheduleIntersectionCheck() {
	if w.checkPending || len(w.observers) == 0 {
		return
	}
	w.checkPending = true
	w.sched.RequestFrame(func() {
		w.checkPending = false
		observers := append([]*IntersectionObserver(nil), w.observers...)
		for _, o := range observers {
			o.check()
		}
	})
}
