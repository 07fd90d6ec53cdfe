package dom

// Event types dispatched through the document.
const (
	EventClick    = "click"
	EventInput    = "input"
	EventSubmit   = "submit"
	EventFocus    = "focus"
	EventBlur     = "blur"
	EventFocusIn  = "focusin"
	EventFocusOut = "focusout"
	EventKeyDown  = "keydown"
	EventScroll   = "scroll"
	EventResize   = "resize"
)

// nonBubbling lists the event types that only reach their target.
var nonBubbling = map[string]bool{
	EventFocus:  true,
	EventBlur:   true,
	EventScroll: true,
	EventResize: true,
}

// Event is a DOM event travelling from its target up to the document.
type Event struct {
	Type string

	// Target is the element the event was dispatched to. It is nil for
	// events fired on the document or window directly.
	Target *Element

	// CurrentTarget is the element whose listener is running, nil while
	// document and window listeners run.
	CurrentTarget *Element

	// Key is the KeyboardEvent.key value for keydown events.
	Key string

	ShiftKey bool
	CtrlKey  bool
	MetaKey  bool
	AltKey   bool

	// NativeDefault marks events whose default action the client performs
	// itself. The document then skips its own default handling.
	NativeDefault bool

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// NewKeyEvent creates a keydown event for key.
func NewKeyEvent(key string, shift bool) *Event {
	return &Event{Type: EventKeyDown, Key: key, ShiftKey: shift}
}

// Bubbles reports whether the event propagates to ancestors.
func (e *Event) Bubbles() bool { return !nonBubbling[e.Type] }

// PreventDefault cancels the event's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further listeners up the tree.
func (e *Event) StopPropagation() { e.stopped = true }

// HasModifier reports whether any of Meta, Ctrl, Shift or Alt was held.
func (e *Event) HasModifier() bool {
	return e.MetaKey || e.CtrlKey || e.ShiftKey || e.AltKey
}

// Handler handles an event.
type Handler func(ev *Event)

// Listener is a registered handler. Remove unregisters it.
type Listener struct {
	typ     string
	fn      Handler
	owner   *Listeners
	removed bool
}

// Remove unregisters the listener. It is safe to call more than once.
func (l *Listener) Remove() {
	if l == nil || l.removed {
		return
	}
	l.owner.RemoveEventListener(l)
}

// Listeners is an event target's handler table. The zero value is ready to use.
type Listeners struct {
	byType map[string][]*Listener
}

// AddEventListener registers fn for events of type typ.
func (ls *Listeners) AddEventListener(typ string, fn Handler) *Listener {
	if ls.byType == nil {
		ls.byType = make(map[string][]*Listener)
	}
	l := &Listener{typ: typ, fn: fn, owner: ls}
	ls.byType[typ] = append(ls.byType[typ], l)
	return l
}

// RemoveEventListener unregisters l.
func (ls *Listeners) RemoveEventListener(l *Listener) {
	if l == nil || l.owner != ls {
		return
	}
	l.removed = true
	list := ls.byType[l.typ]
	for i, cur := range list {
		if cur == l {
			ls.byType[l.typ] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (ls *Listeners) ListenerCount(typ string) int {
	return len(ls.byType[typ])
}

// Fire runs the listeners registered for ev.Type. Listeners added while
// firing do not run for this event; listeners removed while firing are skipped.
func (ls *Listeners) Fire(ev *Event) {
	list := ls.byType[ev.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*Listener, len(list))
	copy(snapshot, list)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.fn(ev)
	}
}
