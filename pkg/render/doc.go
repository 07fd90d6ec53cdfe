// Package render serializes dom documents to HTML for server-side
// rendering and static export.
//
// Every element keeps its data-lid attribute, so a page parsed from the
// rendered output addresses the same elements as the document it was
// rendered from. That is how a live session finds the elements the
// browser reports events for.
//
// # Full Page Rendering
//
//	r := render.NewRenderer(render.RendererConfig{Assets: resolver})
//	err := r.RenderPage(w, render.PageData{
//	    Doc:         doc,
//	    Title:       "Studio",
//	    StyleSheets: []string{"/assets/site.css"},
//	})
//
// The page gets a charset and viewport meta tag, the stylesheets, the
// document's own head and body, and the live client script pointing at
// PageData.LiveURL.
package render
