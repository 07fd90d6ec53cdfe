package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/protocol"
	"github.com/vango-dev/landing/pkg/ui"
)

// ErrStalePage is returned by a PageFunc when the client's page was
// rendered from content the server can no longer build. The client is
// told to reload instead of getting a session.
var ErrStalePage = errors.New("live: stale page")

// PageFunc returns a fresh document for a new session. Documents are
// mutated by their session and must not be shared.
type PageFunc func(r *http.Request) (*dom.Document, error)

// Manager accepts WebSocket connections and owns their sessions.
type Manager struct {
	newPage  PageFunc
	config   *Config
	logger   *slog.Logger
	observer Observer

	middleware []Middleware
	uiOptions  []ui.Option

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session
	wg       sync.WaitGroup
	closing  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithMiddleware appends event middleware.
func WithMiddleware(mws ...Middleware) ManagerOption {
	return func(m *Manager) { m.middleware = append(m.middleware, mws...) }
}

// WithObserver sets the session lifecycle observer.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithUIOptions passes options to every session's page controller.
func WithUIOptions(opts ...ui.Option) ManagerOption {
	return func(m *Manager) { m.uiOptions = append(m.uiOptions, opts...) }
}

// NewManager creates a session manager. A nil cfg uses DefaultConfig.
func NewManager(newPage PageFunc, cfg *Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		newPage:  newPage,
		config:   cfg.withDefaults(),
		logger:   slog.Default(),
		observer: nopObserver{},
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "live")
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     m.config.CheckOrigin,
	}
	return m
}

// Config returns the effective configuration.
func (m *Manager) Config() *Config { return m.config }

// ServeHTTP upgrades the request and starts a session.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	full := m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions
	closing := m.closing
	m.mu.RUnlock()
	if closing {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	if full {
		m.logger.Warn("session limit reached", "max", m.config.MaxSessions)
		m.observer.ConnectionError("capacity")
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	doc, err := m.newPage(r)
	if errors.Is(err, ErrStalePage) {
		m.rejectStale(w, r)
		return
	}
	if err != nil {
		m.logger.Error("page build failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		m.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		m.observer.ConnectionError("upgrade")
		return
	}
	conn.SetReadLimit(m.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(m.config.HandshakeTimeout))

	s := newSession(conn, doc, m)
	s.onClose = m.remove
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.wg.Add(1)
	m.mu.Unlock()

	m.observer.SessionOpened(s.ID)
	s.logger.Info("session opened", "remote", r.RemoteAddr)
	s.Start()
}

// rejectStale upgrades the connection only to send a fatal StalePage
// error, then closes it.
func (m *Manager) rejectStale(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		m.observer.ConnectionError("upgrade")
		return
	}
	defer conn.Close()
	m.logger.Info("stale page rejected", "remote", r.RemoteAddr, "version", r.URL.Query().Get("v"))
	m.observer.ConnectionError("stale")

	data, err := protocol.Encode(protocol.NewErrorFrame(
		protocol.NewFatalError(protocol.ErrStalePage, "page is out of date")))
	if err != nil {
		m.logger.Error("encode stale frame", "error", err)
		return
	}
	deadline := time.Now().Add(m.config.WriteTimeout)
	conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "stale page"), deadline)
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	_, ok := m.sessions[s.ID]
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	if ok {
		m.observer.SessionClosed(s.ID, time.Since(s.CreatedAt))
		m.wg.Done()
	}
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Closing reports whether Shutdown has been called.
func (m *Manager) Closing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closing
}

// Shutdown refuses new connections, closes every session and waits for
// them to finish or ctx to end.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closing = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	m.logger.Info("shutting down", "sessions", len(sessions))
	for _, s := range sessions {
		s.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
