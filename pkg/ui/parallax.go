package ui

import (
	"math"
	"strconv"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// ParallaxMax is the largest offset in pixels in either direction.
const ParallaxMax = 18

// ParallaxProperty is the custom property the stylesheet reads.
const ParallaxProperty = "--parallax-y"

// Parallax shifts decorative hero elements against the scroll direction.
type Parallax struct {
	win     *browser.Window
	targets []*dom.Element
	pending bool
	enabled bool
}

func newParallax(win *browser.Window, c Controls) *Parallax {
	p := &Parallax{win: win, targets: c.Parallax}
	for _, el := range p.targets {
		el.SetAttr("data-parallax", "")
	}
	if !canAnimate(win) || len(p.targets) == 0 {
		return p
	}
	p.enabled = true
	p.Update()
	win.AddEventListener(dom.EventScroll, func(*dom.Event) { p.schedule() })
	win.AddEventListener(dom.EventResize, func(*dom.Event) { p.schedule() })
	return p
}

// Enabled reports whether parallax is active.
func (p *Parallax) Enabled() bool { return p.enabled }

func (p *Parallax) schedule() {
	if p.pending {
		return
	}
	p.pending = true
	p.win.RequestAnimationFrame(p.Update)
}

// Update writes the current offset of every target with a known layout box.
func (p *Parallax) Update() {
	p.pending = false
	for _, el := range p.targets {
		r, ok := el.Rect()
		if !ok {
			continue
		}
		el.SetStyle(ParallaxProperty, FormatOffset(ParallaxOffset(r, p.win.InnerHeight())))
	}
}

// ParallaxOffset maps the distance between r's vertical midpoint and the
// viewport centre to an offset in [-ParallaxMax, ParallaxMax].
func ParallaxOffset(r dom.Rect, innerHeight float64) float64 {
	vh := math.Max(1, innerHeight)
	mid := r.Top + r.Height/2
	t := (mid - vh/2) / (vh / 2)
	return math.Max(-ParallaxMax, math.Min(ParallaxMax, -t*ParallaxMax))
}

// FormatOffset renders y as a pixel length with two decimals. Values that
// round to zero from below keep their sign, as toFixed does.
func FormatOffset(y float64) string {
	// Negative zero compares equal to zero; this stores positive zero.
	if y == 0 {
		y = 0
	}
	return strconv.FormatFloat(y, 'f', 2, 64) + "px"
}
