package ui

import (
	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
)

// Reveal options for sections and cards scrolling into view.
const (
	RevealThreshold  = 0.12
	RevealRootMargin = "0px 0px -10% 0px"
)

// Reveal marks candidates revealed the first time they scroll into view.
type Reveal struct {
	observer *browser.IntersectionObserver
}

func newReveal(win *browser.Window, c Controls) *Reveal {
	r := &Reveal{}
	for _, el := range c.Reveal {
		el.SetAttr("data-reveal", "")
	}
	if canAnimate(win) {
		obs, ok := win.NewIntersectionObserver(r.onIntersect, browser.ObserverOptions{
			Thresholds: []float64{RevealThreshold},
			RootMargin: RevealRootMargin,
		})
		if ok {
			r.observer = obs
			for _, el := range c.Reveal {
				obs.Observe(el)
			}
			return r
		}
	}
	for _, el := range c.Reveal {
		el.AddClass(ClassRevealed)
	}
	return r
}

func (r *Reveal) onIntersect(entries []browser.IntersectionEntry, obs *browser.IntersectionObserver) {
	for _, e := range entries {
		if !e.IsIntersecting {
			continue
		}
		e.Target.AddClass(ClassRevealed)
		obs.Unobserve(e.Target)
	}
}

// Observing reports whether el is still waiting to be revealed.
func (r *Reveal) Observing(el *dom.Element) bool {
	return r.observer != nil && r.observer.Observing(el)
}
