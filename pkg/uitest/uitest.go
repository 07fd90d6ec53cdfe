package uitest

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/ui"
)

// Modifier is a key held during a click.
type Modifier int

// Modifier keys.
const (
	Meta Modifier = iota
	Ctrl
	Shift
	Alt
)

// Page is a headless page: a parsed document, a window driven by a manual
// scheduler, and the page controllers.
type Page struct {
	t      testing.TB
	Doc    *dom.Document
	Win    *browser.Window
	Sched  *browser.ManualScheduler
	UI     *ui.Controller
	layout map[*dom.Element]dom.Rect
}

type config struct {
	browser browser.Options
	ui      []ui.Option
	layout  []layoutEntry
}

type layoutEntry struct {
	selector string
	rect     dom.Rect
}

// Option configures a Page.
type Option func(*config)

// WithReducedMotion sets the reduced-motion preference.
func WithReducedMotion() Option {
	return func(c *config) { c.browser.ReducedMotion = true }
}

// WithoutInert simulates a client without native inert support.
func WithoutInert() Option {
	return func(c *config) { c.browser.Features.Inert = false }
}

// WithoutIntersectionObserver simulates a client without intersection observers.
func WithoutIntersectionObserver() Option {
	return func(c *config) { c.browser.Features.IntersectionObserver = false }
}

// WithViewport sets the initial viewport.
func WithViewport(w, h float64) Option {
	return func(c *config) { c.browser.Viewport = browser.Viewport{Width: w, Height: h} }
}

// WithScrollY sets the initial scroll offset.
func WithScrollY(y float64) Option {
	return func(c *config) { c.browser.ScrollY = y }
}

// WithLayout places the first element matching selector at r in page
// coordinates before the controllers start.
func WithLayout(selector string, r dom.Rect) Option {
	return func(c *config) { c.layout = append(c.layout, layoutEntry{selector, r}) }
}

// WithUIOptions passes options to ui.New.
func WithUIOptions(opts ...ui.Option) Option {
	return func(c *config) { c.ui = append(c.ui, opts...) }
}

// New parses markup and starts the page controllers.
func New(t testing.TB, markup string, opts ...Option) *Page {
	t.Helper()
	cfg := config{browser: browser.DefaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}
	doc, err := dom.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("uitest: parse page: %v", err)
	}
	sched := browser.NewManualScheduler()
	p := &Page{
		t:      t,
		Doc:    doc,
		Win:    browser.New(doc, sched, cfg.browser),
		Sched:  sched,
		layout: make(map[*dom.Element]dom.Rect),
	}
	for _, l := range cfg.layout {
		p.place(p.El(l.selector), l.rect)
	}
	p.UI = ui.New(doc, p.Win, cfg.ui...)
	return p
}

// El returns the first element matching selector and fails the test if
// there is none.
func (p *Page) El(selector string) *dom.Element {
	p.t.Helper()
	el := p.Doc.Query(selector)
	if el == nil {
		p.t.Fatalf("uitest: no element matches %q", selector)
	}
	return el
}

// Click dispatches a click on the element matching selector.
func (p *Page) Click(selector string, mods ...Modifier) *dom.Event {
	p.t.Helper()
	return p.ClickEl(p.El(selector), mods...)
}

// ClickEl dispatches a click on el.
func (p *Page) ClickEl(el *dom.Element, mods ...Modifier) *dom.Event {
	ev := dom.NewEvent(dom.EventClick)
	for _, m := range mods {
		switch m {
		case Meta:
			ev.MetaKey = true
		case Ctrl:
			ev.CtrlKey = true
		case Shift:
			ev.ShiftKey = true
		case Alt:
			ev.AltKey = true
		}
	}
	p.Doc.Dispatch(el, ev)
	return ev
}

// Key dispatches a keydown to the focused element.
func (p *Page) Key(key string) *dom.Event {
	return p.key(key, false)
}

// ShiftKey dispatches a keydown with Shift held.
func (p *Page) ShiftKey(key string) *dom.Event {
	return p.key(key, true)
}

func (p *Page) key(key string, shift bool) *dom.Event {
	ev := dom.NewKeyEvent(key, shift)
	p.Doc.Dispatch(p.Doc.ActiveElement(), ev)
	return ev
}

// Focus moves focus to the element matching selector as a user would.
func (p *Page) Focus(selector string) {
	p.t.Helper()
	p.Doc.SetActive(p.El(selector))
}

// Blur removes focus from the focused element.
func (p *Page) Blur() {
	p.Doc.SetActive(nil)
}

// Type focuses the control matching selector, replaces its value and
// dispatches an input event.
func (p *Page) Type(selector, value string) {
	p.t.Helper()
	el := p.El(selector)
	p.Doc.SetActive(el)
	el.SyncValue(value)
	p.Doc.Dispatch(el, dom.NewEvent(dom.EventInput))
}

// Submit dispatches a submit event on the form matching selector.
func (p *Page) Submit(selector string) *dom.Event {
	p.t.Helper()
	ev := dom.NewEvent(dom.EventSubmit)
	p.Doc.Dispatch(p.El(selector), ev)
	return ev
}

// ScrollTo scrolls the window, shifting every placed element by the new
// offset.
func (p *Page) ScrollTo(y float64) {
	for el, r := range p.layout {
		r.Top -= y
		el.SetRect(r)
	}
	p.Win.ScrollTo(y)
}

// Place moves the element matching selector to r in page coordinates.
func (p *Page) Place(selector string, r dom.Rect) {
	p.t.Helper()
	p.place(p.El(selector), r)
	p.Win.LayoutChanged()
}

func (p *Page) place(el *dom.Element, r dom.Rect) {
	p.layout[el] = r
	r.Top -= p.Win.ScrollY()
	el.SetRect(r)
}

// Resize changes the viewport.
func (p *Page) Resize(w, h float64) {
	p.Win.Resize(browser.Viewport{Width: w, Height: h})
}

// Frame runs one animation frame.
func (p *Page) Frame() int { return p.Sched.Frame() }

// Advance moves virtual time forward.
func (p *Page) Advance(d time.Duration) { p.Sched.Advance(d) }

// Patches drains the recorded mutations.
func (p *Page) Patches() []dom.Patch { return p.Doc.TakePatches() }
