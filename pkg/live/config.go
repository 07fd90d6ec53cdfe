package live

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/landing/pkg/browser"
)

// Config configures live sessions.
type Config struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Heartbeat pongs extend it.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	WriteTimeout time.Duration

	// HandshakeTimeout is the maximum time between upgrade and hello.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	MaxMessageSize int64

	// MaxEventQueue is the size of the event and dispatch channel buffers.
	MaxEventQueue int

	// FrameInterval is the animation frame period.
	FrameInterval time.Duration

	// MaxSessions caps concurrent sessions. 0 means no limit.
	MaxSessions int

	// Locale fixes the form copy for every session. Empty uses the
	// locale reported by each client.
	Locale string

	// CheckOrigin validates the upgrade request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		MaxEventQueue:     256,
		FrameInterval:     browser.DefaultFrameInterval,
		CheckOrigin:       SameOriginCheck,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.HandshakeTimeout <= 0 {
		out.HandshakeTimeout = d.HandshakeTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = d.HeartbeatInterval
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.MaxEventQueue <= 0 {
		out.MaxEventQueue = d.MaxEventQueue
	}
	if out.FrameInterval <= 0 {
		out.FrameInterval = d.FrameInterval
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	return &out
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the Host header.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// AllowOrigins returns an origin check that accepts same-origin requests
// and the listed origins. "*" accepts everything.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	allowAll := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(o)] = true
	}
	return func(r *http.Request) bool {
		if allowAll || SameOriginCheck(r) {
			return true
		}
		return allowed[strings.ToLower(r.Header.Get("Origin"))]
	}
}
