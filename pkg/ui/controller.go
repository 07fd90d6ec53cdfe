package ui

import (
	"log/slog"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/form"
)

// Controller owns the interaction behaviour of one page instance. Each
// sub-controller is independent and no-ops when its markup is missing.
type Controller struct {
	Header   *Header
	Nav      *Nav
	Toast    *Toast
	Modals   *Modals
	Form     *Form
	Scroll   *SmoothScroll
	Reveal   *Reveal
	Parallax *Parallax

	doc      *dom.Document
	win      *browser.Window
	controls Controls
	logger   *slog.Logger
}

type options struct {
	logger   *slog.Logger
	messages form.Messages
}

// Option configures a Controller.
type Option func(*options)

// WithLogger sets the logger used for controller diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMessages sets the form and toast copy.
func WithMessages(m form.Messages) Option {
	return func(o *options) { o.messages = m }
}

// New resolves the page controls and wires every controller. It runs the
// initial header, reveal and parallax updates immediately.
func New(doc *dom.Document, win *browser.Window, opts ...Option) *Controller {
	o := options{logger: slog.Default(), messages: form.English}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With("component", "ui")
	controls := ResolveControls(doc)

	c := &Controller{
		doc:      doc,
		win:      win,
		controls: controls,
		logger:   logger,
	}
	c.Header = newHeader(controls.Header, win)
	c.Nav = newNav(doc, controls)
	c.Toast = newToast(controls.Toast, win)
	c.Modals = newModals(doc, win, controls, logger)
	c.Form = newForm(doc, controls, o.messages, c.Toast, c.Modals, logger)
	c.Scroll = newSmoothScroll(doc, win, controls, c.Nav)
	c.Reveal = newReveal(win, controls)
	c.Parallax = newParallax(win, controls)

	logger.Debug("controllers ready",
		"header", controls.Header != nil,
		"nav", controls.Nav != nil,
		"modals", len(controls.Modals),
		"form", controls.Form != nil,
		"reveal", len(controls.Reveal),
		"parallax", len(controls.Parallax),
	)
	return c
}

// Restore reapplies the open state of elements the client already shows
// open, as after a reconnect. Only the nav and modals carry such state;
// other elements are ignored.
func (c *Controller) Restore(open ...*dom.Element) {
	for _, el := range open {
		switch {
		case el == nil:
		case el == c.controls.Nav:
			c.Nav.Open()
		case el.Matches(selModal):
			c.Modals.Resume(el.GetAttr("data-modal"))
		}
	}
}

// Controls returns the resolved lookup table.
func (c *Controller) Controls() Controls { return c.controls }

// Document returns the controlled document.
func (c *Controller) Document() *dom.Document { return c.doc }

// Window returns the page window.
func (c *Controller) Window() *browser.Window { return c.win }

// canAnimate reports whether motion effects should run.
func canAnimate(win *browser.Window) bool {
	return !win.PrefersReducedMotion()
}
