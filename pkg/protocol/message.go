package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/landing/pkg/dom"
)

// Client message types.
const (
	TypeHello  = "hello"
	TypeEvent  = "event"
	TypeLayout = "layout"
	TypePing   = "ping"
)

// Server message types.
const (
	TypeWelcome = "welcome"
	TypePatches = "patches"
	TypeError   = "error"
	TypePong    = "pong"
)

// Viewport is the client's layout viewport.
type Viewport struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Rect is a client rect relative to the viewport.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DOM converts r to a dom.Rect.
func (r Rect) DOM() dom.Rect {
	return dom.Rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}

// Features lists the client's capabilities.
type Features struct {
	IntersectionObserver bool `json:"io"`
	Inert                bool `json:"inert"`
}

// Layout is the client's view of the page geometry. Fields left nil are
// unchanged.
type Layout struct {
	ScrollY  *float64        `json:"scrollY,omitempty"`
	Viewport *Viewport       `json:"viewport,omitempty"`
	Rects    map[string]Rect `json:"rects,omitempty"`
}

// Hello is the first client message of a connection.
type Hello struct {
	Layout
	ReducedMotion bool              `json:"reducedMotion,omitempty"`
	Features      Features          `json:"features"`
	Locale        string            `json:"locale,omitempty"`
	Values        map[string]string `json:"values,omitempty"`
	Active        string            `json:"active,omitempty"`

	// Open lists the elements the client shows open, such as the nav or a
	// modal left open by an earlier connection of the same page.
	Open []string `json:"open,omitempty"`
}

// Event is a DOM event observed by the client.
type Event struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
	Key    string `json:"key,omitempty"`
	Shift  bool   `json:"shift,omitempty"`
	Ctrl   bool   `json:"ctrl,omitempty"`
	Meta   bool   `json:"meta,omitempty"`
	Alt    bool   `json:"alt,omitempty"`

	// Value is the control value after an input event.
	Value *string `json:"value,omitempty"`

	// Deferred means the client suppressed the native default action and
	// the server performs it unless a handler prevents it.
	Deferred bool `json:"deferred,omitempty"`

	// Prevented means page code had already cancelled the event.
	Prevented bool `json:"prevented,omitempty"`

	// Layout carries geometry observed together with the event, such as
	// the scroll offset of a scroll event.
	Layout *Layout `json:"layout,omitempty"`
}

// Inbound is a decoded client frame. Exactly one payload is set for its type.
type Inbound struct {
	Type   string  `json:"t"`
	Seq    uint64  `json:"seq,omitempty"`
	Hello  *Hello  `json:"hello,omitempty"`
	Event  *Event  `json:"event,omitempty"`
	Layout *Layout `json:"layout,omitempty"`
}

// Outbound is a server frame.
type Outbound struct {
	Type    string        `json:"t"`
	Seq     uint64        `json:"seq,omitempty"`
	Session string        `json:"session,omitempty"`
	Patches []Patch       `json:"patches,omitempty"`
	Error   *ErrorMessage `json:"error,omitempty"`
}

// DecodeInbound parses and validates a client frame.
func DecodeInbound(data []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, Errorf(ErrInvalidFrame, "decode frame: %v", err)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

func (in *Inbound) validate() error {
	switch in.Type {
	case TypeHello:
		if in.Hello == nil {
			return NewError(ErrInvalidFrame, "hello frame without payload")
		}
		if len(in.Hello.Values) > MaxValues {
			return Errorf(ErrInvalidFrame, "hello carries %d values, limit %d", len(in.Hello.Values), MaxValues)
		}
		if len(in.Hello.Open) > MaxOpen {
			return Errorf(ErrInvalidFrame, "hello carries %d open elements, limit %d", len(in.Hello.Open), MaxOpen)
		}
		for _, v := range in.Hello.Values {
			if len(v) > MaxValueLength {
				return NewError(ErrInvalidFrame, "control value too long")
			}
		}
		return in.Hello.Layout.validate()
	case TypeEvent:
		if in.Event == nil || in.Event.Type == "" {
			return NewError(ErrInvalidEvent, "event frame without event type")
		}
		if len(in.Event.Key) > MaxKeyLength {
			return NewError(ErrInvalidEvent, "key too long")
		}
		if in.Event.Value != nil && len(*in.Event.Value) > MaxValueLength {
			return NewError(ErrInvalidEvent, "control value too long")
		}
		if in.Event.Layout != nil {
			return in.Event.Layout.validate()
		}
		return nil
	case TypeLayout:
		if in.Layout == nil {
			return NewError(ErrInvalidFrame, "layout frame without payload")
		}
		return in.Layout.validate()
	case TypePing:
		return nil
	case "":
		return NewError(ErrInvalidFrame, "frame without type")
	default:
		return Errorf(ErrInvalidFrame, "unknown frame type %q", in.Type)
	}
}

func (l *Layout) validate() error {
	if len(l.Rects) > MaxRects {
		return Errorf(ErrInvalidFrame, "layout carries %d rects, limit %d", len(l.Rects), MaxRects)
	}
	if l.Viewport != nil && (l.Viewport.Width < 0 || l.Viewport.Height < 0) {
		return NewError(ErrInvalidFrame, "negative viewport")
	}
	return nil
}

// Encode marshals a server frame.
func Encode(out *Outbound) ([]byte, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s frame: %w", out.Type, err)
	}
	return b, nil
}

// NewPatches builds a patches frame.
func NewPatches(seq uint64, ps []dom.Patch) *Outbound {
	return &Outbound{Type: TypePatches, Seq: seq, Patches: FromDOM(ps)}
}

// NewWelcome builds the reply to hello.
func NewWelcome(session string) *Outbound {
	return &Outbound{Type: TypeWelcome, Session: session}
}

// NewErrorFrame wraps an error message in a frame.
func NewErrorFrame(em *ErrorMessage) *Outbound {
	return &Outbound{Type: TypeError, Error: em}
}

// Pong is the reply to ping.
func Pong() *Outbound {
	return &Outbound{Type: TypePong}
}
