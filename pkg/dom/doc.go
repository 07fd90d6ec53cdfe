// Package dom provides the in-memory document that page controllers run
// against.
//
// A Document wraps an x/net/html tree. Each element gets a live ID (the
// data-lid attribute) so that a copy of the same markup in a browser can
// be addressed remotely. Every mutation made through an Element (classes,
// attributes, inline style, text, form values, focus, scrollIntoView) is
// appended to the document's patch log; TakePatches drains it.
//
// Events are dispatched with Dispatch and bubble from the target through
// its ancestors to the document. Listeners are registered per element or on
// the document and return a *Listener handle for removal.
//
//	doc, _ := dom.Parse(strings.NewReader(page))
//	btn := doc.Query("[data-menu-button]")
//	btn.AddEventListener(dom.EventClick, func(ev *dom.Event) {
//	    doc.Query("[data-nav]").ToggleClass("is-open", true)
//	})
//	doc.Dispatch(btn, dom.NewEvent(dom.EventClick))
//	patches := doc.TakePatches()
//
// Selectors are CSS selectors compiled with cascadia and cached per document.
package dom
