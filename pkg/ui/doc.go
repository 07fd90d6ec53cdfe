// Package ui wires the landing page behaviour onto a document: sticky
// header, mobile navigation, toast, modals with focus trapping, the
// request form, smooth anchor scrolling, scroll reveal and hero parallax.
//
// Controls are resolved once from data attributes. Every controller is
// optional and does nothing when its markup is missing.
//
//	page := ui.New(doc, win, ui.WithMessages(form.MessagesFor("ru")))
//	page.Modals.Open("request")
package ui
