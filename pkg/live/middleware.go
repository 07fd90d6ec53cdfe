package live

import (
	"context"
	"time"
)

// EventInfo describes one unit of work on a session loop.
type EventInfo struct {
	SessionID string

	// Type is the DOM event type for event frames and the frame type
	// otherwise ("hello", "layout").
	Type string

	// Target is the event target's live id, if any.
	Target string
}

// Middleware wraps the handling of a client frame. It must call next to
// continue processing and return its error.
type Middleware func(ctx context.Context, info EventInfo, next func(context.Context) error) error

// Observer receives session lifecycle notifications. Calls may come from
// any goroutine.
type Observer interface {
	SessionOpened(id string)
	SessionClosed(id string, lifetime time.Duration)
	PatchesSent(count int)
	ConnectionError(kind string)
}

type nopObserver struct{}

func (nopObserver) SessionOpened(string)                {}
func (nopObserver) SessionClosed(string, time.Duration) {}
func (nopObserver) PatchesSent(int)                     {}
func (nopObserver) ConnectionError(string)              {}

// chain composes middleware around final, outermost first.
func chain(mws []Middleware, info EventInfo, final func(context.Context) error) func(context.Context) error {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(ctx context.Context) error {
			return mw(ctx, info, next)
		}
	}
	return h
}
