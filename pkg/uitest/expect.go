package uitest

import (
	"testing"

	"github.com/vango-dev/landing/pkg/dom"
)

// ExpectClass fails the test if el lacks class.
func ExpectClass(t testing.TB, el *dom.Element, class string) {
	t.Helper()
	if !el.HasClass(class) {
		t.Errorf("expected <%s> to have class %q, classes %v", el.Tag(), class, el.Classes())
	}
}

// ExpectNoClass fails the test if el has class.
func ExpectNoClass(t testing.TB, el *dom.Element, class string) {
	t.Helper()
	if el.HasClass(class) {
		t.Errorf("expected <%s> not to have class %q", el.Tag(), class)
	}
}

// ExpectAttr fails the test unless el's attribute key equals want.
func ExpectAttr(t testing.TB, el *dom.Element, key, want string) {
	t.Helper()
	got, ok := el.Attr(key)
	if !ok {
		t.Errorf("expected <%s> to have attribute %s=%q, attribute missing", el.Tag(), key, want)
		return
	}
	if got != want {
		t.Errorf("expected <%s> %s=%q, got %q", el.Tag(), key, want, got)
	}
}

// ExpectNoAttr fails the test if el has the attribute key.
func ExpectNoAttr(t testing.TB, el *dom.Element, key string) {
	t.Helper()
	if v, ok := el.Attr(key); ok {
		t.Errorf("expected <%s> not to have attribute %s, got %q", el.Tag(), key, v)
	}
}

// ExpectText fails the test unless el's text content equals want.
func ExpectText(t testing.TB, el *dom.Element, want string) {
	t.Helper()
	if got := el.TextContent(); got != want {
		t.Errorf("expected <%s> text %q, got %q", el.Tag(), want, got)
	}
}

// ExpectFocus fails the test unless el is the active element.
func ExpectFocus(t testing.TB, doc *dom.Document, el *dom.Element) {
	t.Helper()
	if got := doc.ActiveElement(); got != el {
		t.Errorf("expected focus on <%s id=%q>, got <%s id=%q>", el.Tag(), el.ID(), got.Tag(), got.ID())
	}
}
