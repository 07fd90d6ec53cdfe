package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/form"
	"github.com/vango-dev/landing/pkg/protocol"
	"github.com/vango-dev/landing/pkg/ui"
)

// ErrEventQueueFull is returned when a session cannot accept more events.
var ErrEventQueueFull = errors.New("live: event queue full")

// Session is one connected browser tab. All page work runs on the
// session's event loop; the read and write loops only move frames.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn     *websocket.Conn
	config   *Config
	logger   *slog.Logger
	observer Observer

	middleware []Middleware
	uiOptions  []ui.Option

	doc   *dom.Document
	win   *browser.Window
	sched *browser.LoopScheduler
	page  *ui.Controller

	ctx    context.Context
	cancel context.CancelFunc

	events     chan *protocol.Inbound
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once
	onClose    func(*Session)

	writeMu    sync.Mutex
	sendSeq    atomic.Uint64
	recvSeq    atomic.Uint64
	eventCount atomic.Uint64
	patchCount atomic.Uint64
}

func newSession(conn *websocket.Conn, doc *dom.Document, m *Manager) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		conn:       conn,
		config:     m.config,
		logger:     m.logger.With("session_id", id),
		observer:   m.observer,
		middleware: m.middleware,
		uiOptions:  m.uiOptions,
		doc:        doc,
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan *protocol.Inbound, m.config.MaxEventQueue),
		dispatchCh: make(chan func(), m.config.MaxEventQueue),
		done:       make(chan struct{}),
	}
	s.sched = browser.NewLoopScheduler(s.post, m.config.FrameInterval)
	return s
}

// Start runs the session loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} { return s.done }

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool { return s.closed.Load() }

// Mounted reports whether the page controllers are running.
// Only meaningful on the event loop.
func (s *Session) Mounted() bool { return s.page != nil }

// EventCount returns the number of client frames processed.
func (s *Session) EventCount() uint64 { return s.eventCount.Load() }

// PatchCount returns the number of patches sent.
func (s *Session) PatchCount() uint64 { return s.patchCount.Load() }

// QueueEvent hands a decoded client frame to the event loop.
func (s *Session) QueueEvent(in *protocol.Inbound) error {
	select {
	case s.events <- in:
		return nil
	default:
		s.logger.Warn("event queue full, dropping frame", "type", in.Type)
		return ErrEventQueueFull
	}
}

// Dispatch queues fn to run on the event loop. It is safe to call from any
// goroutine. Patches recorded by fn are flushed when it returns.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	default:
		s.logger.Warn("dispatch queue full, discarding callback")
	}
}

// post queues fn like Dispatch but waits for room rather than dropping
// it, so frame and timer callbacks are never lost. The scheduler calls it
// from timer goroutines only, never from the event loop.
func (s *Session) post(fn func()) {
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// Close ends the session and its connection.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.cancel()
		s.sched.Close()
		s.conn.Close()
		s.logger.Info("session closed",
			"events", s.eventCount.Load(),
			"patches", s.patchCount.Load(),
			"lifetime", time.Since(s.CreatedAt))
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// process runs one client frame through the middleware chain, then flushes.
func (s *Session) process(in *protocol.Inbound) {
	s.eventCount.Add(1)
	if in.Seq > 0 {
		s.recvSeq.Store(in.Seq)
	}
	info := EventInfo{SessionID: s.ID, Type: in.Type}
	if in.Event != nil {
		info.Type = in.Event.Type
		info.Target = in.Event.Target
	}
	h := chain(s.middleware, info, func(context.Context) error { return s.apply(in) })
	err := s.safely(func() error { return h(s.ctx) })
	if err != nil {
		s.reportError(err)
	}
	s.flush()
}

// run executes a dispatched callback, then flushes.
func (s *Session) run(fn func()) {
	if err := s.safely(func() error { fn(); return nil }); err != nil {
		s.reportError(err)
	}
	s.flush()
}

// safely runs fn and converts a panic into a protocol error.
func (s *Session) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = protocol.NewError(protocol.ErrHandlerPanic, "internal error")
		}
	}()
	return fn()
}

func (s *Session) reportError(err error) {
	var em *protocol.ErrorMessage
	if !errors.As(err, &em) {
		s.logger.Error("event error", "error", err)
		em = protocol.NewError(protocol.ErrServerError, "internal error")
	} else {
		s.logger.Warn("client error", "code", em.Code.String(), "message", em.Message)
	}
	s.sendError(em)
}

func (s *Session) apply(in *protocol.Inbound) error {
	switch in.Type {
	case protocol.TypeHello:
		return s.mount(in.Hello)
	case protocol.TypeLayout:
		if s.page == nil {
			return protocol.NewError(protocol.ErrNotMounted, "layout before hello")
		}
		s.applyLayout(in.Layout, true)
		return nil
	case protocol.TypeEvent:
		if s.page == nil {
			return protocol.NewError(protocol.ErrNotMounted, "event before hello")
		}
		return s.applyEvent(in.Event)
	default:
		return protocol.Errorf(protocol.ErrInvalidFrame, "unexpected %s frame", in.Type)
	}
}

// mount starts the page controllers with the client's initial state.
func (s *Session) mount(h *protocol.Hello) error {
	if s.page != nil {
		return protocol.NewError(protocol.ErrInvalidFrame, "session already mounted")
	}
	for lid, v := range h.Values {
		if el := s.doc.ByLID(lid); el != nil {
			el.SyncValue(v)
		}
	}
	s.applyRects(h.Rects)

	opts := browser.DefaultOptions()
	if h.Viewport != nil {
		opts.Viewport = browser.Viewport{Width: h.Viewport.Width, Height: h.Viewport.Height}
	}
	if h.ScrollY != nil {
		opts.ScrollY = *h.ScrollY
	}
	opts.ReducedMotion = h.ReducedMotion
	opts.Features = browser.Features{
		IntersectionObserver: h.Features.IntersectionObserver,
		Inert:                h.Features.Inert,
	}
	s.win = browser.New(s.doc, s.sched, opts)
	if h.Active != "" {
		s.doc.SetActive(s.doc.ByLID(h.Active))
	}

	locale := s.config.Locale
	if locale == "" {
		locale = h.Locale
	}
	uiOpts := []ui.Option{ui.WithLogger(s.logger), ui.WithMessages(form.MessagesFor(locale))}
	s.page = ui.New(s.doc, s.win, append(uiOpts, s.uiOptions...)...)
	if len(h.Open) > 0 {
		open := make([]*dom.Element, 0, len(h.Open))
		for _, lid := range h.Open {
			if el := s.doc.ByLID(lid); el != nil {
				open = append(open, el)
			}
		}
		s.page.Restore(open...)
	}

	s.logger.Info("session mounted",
		"viewport", fmt.Sprintf("%gx%g", opts.Viewport.Width, opts.Viewport.Height),
		"reduced_motion", opts.ReducedMotion,
		"locale", locale,
		"restored", len(h.Open))
	s.send(protocol.NewWelcome(s.ID))
	return nil
}

func (s *Session) applyRects(rects map[string]protocol.Rect) {
	for lid, r := range rects {
		if el := s.doc.ByLID(lid); el != nil {
			el.SetRect(r.DOM())
		}
	}
}

// applyLayout stores client geometry. Viewport and scroll changes fire
// resize and scroll on the window; fire=false leaves that to the caller.
func (s *Session) applyLayout(l *protocol.Layout, fire bool) {
	if l == nil {
		return
	}
	s.applyRects(l.Rects)
	changed := false
	if l.Viewport != nil {
		vp := browser.Viewport{Width: l.Viewport.Width, Height: l.Viewport.Height}
		if fire && (vp.Width != s.win.InnerWidth() || vp.Height != s.win.InnerHeight()) {
			s.win.Resize(vp)
			changed = true
		}
	}
	if l.ScrollY != nil && fire && *l.ScrollY != s.win.ScrollY() {
		s.win.ScrollTo(*l.ScrollY)
		changed = true
	}
	if !changed {
		s.win.LayoutChanged()
	}
}

func (s *Session) applyEvent(pe *protocol.Event) error {
	switch pe.Type {
	case dom.EventScroll:
		s.applyLayout(pe.Layout, false)
		y := s.win.ScrollY()
		if pe.Layout != nil && pe.Layout.ScrollY != nil {
			y = *pe.Layout.ScrollY
		}
		s.win.ScrollTo(y)
		return nil
	case dom.EventResize:
		s.applyLayout(pe.Layout, false)
		vp := browser.Viewport{Width: s.win.InnerWidth(), Height: s.win.InnerHeight()}
		if pe.Layout != nil && pe.Layout.Viewport != nil {
			vp = browser.Viewport{Width: pe.Layout.Viewport.Width, Height: pe.Layout.Viewport.Height}
		}
		s.win.Resize(vp)
		return nil
	}

	s.applyLayout(pe.Layout, true)
	var target *dom.Element
	if pe.Target != "" {
		target = s.doc.ByLID(pe.Target)
		if target == nil {
			return protocol.Errorf(protocol.ErrTargetNotFound, "no element %q", pe.Target)
		}
	}

	switch pe.Type {
	case dom.EventFocusIn, dom.EventFocus:
		s.doc.SetActive(target)
		return nil
	case dom.EventFocusOut, dom.EventBlur:
		// Focus already moved by a focus patch is not undone.
		if target != nil && s.doc.ActiveElement() == target {
			s.doc.SetActive(nil)
		}
		return nil
	case dom.EventInput:
		if target != nil && pe.Value != nil {
			target.SyncValue(*pe.Value)
		}
	}

	ev := dom.NewEvent(pe.Type)
	ev.Key = pe.Key
	ev.ShiftKey, ev.CtrlKey, ev.MetaKey, ev.AltKey = pe.Shift, pe.Ctrl, pe.Meta, pe.Alt
	ev.NativeDefault = !pe.Deferred
	if pe.Prevented {
		ev.PreventDefault()
	}
	s.doc.Dispatch(target, ev)
	return nil
}

// flush sends the mutations recorded since the last flush as one frame.
func (s *Session) flush() {
	patches := s.doc.TakePatches()
	if len(patches) == 0 {
		return
	}
	seq := s.sendSeq.Add(1)
	if s.send(protocol.NewPatches(seq, patches)) {
		s.patchCount.Add(uint64(len(patches)))
		s.observer.PatchesSent(len(patches))
	}
}

func (s *Session) sendError(em *protocol.ErrorMessage) {
	s.send(protocol.NewErrorFrame(em))
	if em.Fatal {
		s.Close()
	}
}

// send writes one frame. It reports whether the write succeeded.
func (s *Session) send(out *protocol.Outbound) bool {
	if s.closed.Load() {
		return false
	}
	data, err := protocol.Encode(out)
	if err != nil {
		s.logger.Error("encode error", "error", err)
		return false
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("write error", "error", err)
		s.observer.ConnectionError("write")
		go s.Close()
		return false
	}
	return true
}
