// Package uitest drives a landing page headlessly in tests.
//
//	func TestMenu(t *testing.T) {
//	    p := uitest.New(t, page)
//	    p.Click("[data-menu-button]")
//	    uitest.ExpectClass(t, p.El("[data-nav]"), "is-open")
//	}
//
// Time and animation frames only move with Advance and Frame. Layout is
// placed with WithLayout or Place in page coordinates; ScrollTo shifts it
// into viewport coordinates the way a browser reports client rects.
package uitest
