package browser

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/landing/pkg/dom"
)

// IntersectionEntry describes a change in a target's intersection with
// the viewport.
type IntersectionEntry struct {
	Target             *dom.Element
	IsIntersecting     bool
	IntersectionRatio  float64
	BoundingClientRect dom.Rect
	RootBounds         dom.Rect
}

// IntersectionCallback receives the entries produced by one check.
type IntersectionCallback func(entries []IntersectionEntry, o *IntersectionObserver)

// ObserverOptions configures an IntersectionObserver.
type ObserverOptions struct {
	// Thresholds are the visible fractions at which entries are delivered.
	// Defaults to [0].
	Thresholds []float64

	// RootMargin grows (positive) or shrinks (negative) the viewport, in
	// CSS margin shorthand with px or % units: "0px 0px -10% 0px".
	RootMargin string
}

// Margin is a parsed root margin. Percent values are relative to the
// viewport width (left/right) or height (top/bottom).
type Margin struct {
	Top, Right, Bottom, Left marginValue
}

type marginValue struct {
	value   float64
	percent bool
}

func (m marginValue) resolve(basis float64) float64 {
	if m.percent {
		return m.value / 100 * basis
	}
	return m.value
}

// ParseRootMargin parses CSS margin shorthand with one to four values.
func ParseRootMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, fmt.Errorf("browser: root margin %q has more than four values", s)
	}
	vals := make([]marginValue, len(fields))
	for i, f := range fields {
		v, err := parseMarginValue(f)
		if err != nil {
			return Margin{}, err
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseMarginValue(s string) (marginValue, error) {
	switch {
	case strings.HasSuffix(s, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return marginValue{}, fmt.Errorf("browser: root margin value %q: %w", s, err)
		}
		return marginValue{value: v}, nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return marginValue{}, fmt.Errorf("browser: root margin value %q: %w", s, err)
		}
		return marginValue{value: v, percent: true}, nil
	case s == "0":
		return marginValue{}, nil
	default:
		return marginValue{}, fmt.Errorf("browser: root margin value %q must use px or %%", s)
	}
}

type observation struct {
	el           *dom.Element
	seen         bool
	index        int
	intersecting bool
}

// IntersectionObserver reports when observed elements cross visibility
// thresholds of the viewport. An element intersects once its visible
// fraction reaches the lowest threshold. Elements without a reported rect
// are not evaluated.
type IntersectionObserver struct {
	win        *Window
	cb         IntersectionCallback
	thresholds []float64
	margin     Margin
	targets    []*observation
}

func newIntersectionObserver(w *Window, cb IntersectionCallback, opts ObserverOptions) *IntersectionObserver {
	thresholds := append([]float64(nil), opts.Thresholds...)
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	sort.Float64s(thresholds)
	margin, err := ParseRootMargin(opts.RootMargin)
	if err != nil {
		margin = Margin{}
	}
	return &IntersectionObserver{win: w, cb: cb, thresholds: thresholds, margin: margin}
}

// Observe starts watching el. The first evaluation is delivered on the
// next frame.
func (o *IntersectionObserver) Observe(el *dom.Element) {
	if el == nil || o.Observing(el) {
		return
	}
	o.targets = append(o.targets, &observation{el: el})
	o.win.scheduleIntersectionCheck()
}

// Unobserve stops watching el.
func (o *IntersectionObserver) Unobserve(el *dom.Element) {
	for i, t := range o.targets {
		if t.el == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			return
		}
	}
}

// Disconnect stops watching every element and detaches from the window.
func (o *IntersectionObserver) Disconnect() {
	o.targets = nil
	o.win.removeObserver(o)
}

// Observing reports whether el is watched.
func (o *IntersectionObserver) Observing(el *dom.Element) bool {
	for _, t := range o.targets {
		if t.el == el {
			return true
		}
	}
	return false
}

// RootBounds returns the viewport rectangle adjusted by the root margin.
func (o *IntersectionObserver) RootBounds() dom.Rect {
	w, h := o.win.InnerWidth(), o.win.InnerHeight()
	top := -o.margin.Top.resolve(h)
	left := -o.margin.Left.resolve(w)
	bottom := h + o.margin.Bottom.resolve(h)
	right := w + o.margin.Right.resolve(w)
	return dom.Rect{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// IntersectionRatio returns the visible fraction of r inside root and
// whether the two touch at all.
func IntersectionRatio(r, root dom.Rect) (float64, bool) {
	top := math.Max(r.Top, root.Top)
	left := math.Max(r.Left, root.Left)
	bottom := math.Min(r.Bottom(), root.Bottom())
	right := math.Min(r.Right(), root.Right())
	if bottom < top || right < left {
		return 0, false
	}
	area := r.Width * r.Height
	if area <= 0 {
		return 1, true
	}
	return (bottom - top) * (right - left) / area, true
}

func (o *IntersectionObserver) check() {
	root := o.RootBounds()
	var entries []IntersectionEntry
	for _, t := range o.targets {
		rect, ok := t.el.Rect()
		if !ok {
			continue
		}
		ratio, touches := IntersectionRatio(rect, root)
		intersecting := touches && ratio >= o.thresholds[0]
		index := 0
		if touches {
			for _, th := range o.thresholds {
				if ratio >= th {
					index++
				}
			}
		}
		if t.seen && index == t.index && intersecting == t.intersecting {
			continue
		}
		t.seen, t.index, t.intersecting = true, index, intersecting
		entries = append(entries, IntersectionEntry{
			Target:             t.el,
			IsIntersecting:     intersecting,
			IntersectionRatio:  ratio,
			BoundingClientRect: rect,
			RootBounds:         root,
		})
	}
	if len(entries) > 0 {
		o.cb(entries, o)
	}
}
