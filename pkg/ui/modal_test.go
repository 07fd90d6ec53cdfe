package ui_test

import (
	"testing"

	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/ui"
	"github.com/vango-dev/landing/pkg/uitest"
)

func TestModalOpenClose(t *testing.T) {
	p := uitest.New(t, testPage)
	opener := p.El("#open-request")
	modal := p.El("#request")
	body := p.El("body")

	p.Focus("#open-request")
	p.Click("#open-request")

	uitest.ExpectClass(t, modal, ui.ClassOpen)
	uitest.ExpectAttr(t, modal, "aria-hidden", "false")
	uitest.ExpectAttr(t, p.El("header"), "inert", "")
	uitest.ExpectAttr(t, p.El("main"), "inert", "")
	uitest.ExpectAttr(t, p.El("footer"), "inert", "")
	if got := body.Style("overflow"); got != "hidden" {
		t.Errorf("body overflow = %q, want hidden", got)
	}
	uitest.ExpectFocus(t, p.Doc, p.El("#close-x"))
	if !p.UI.Modals.Trapping() {
		t.Error("focus trap should be installed")
	}

	p.Click("#close-x")

	uitest.ExpectNoClass(t, modal, ui.ClassOpen)
	uitest.ExpectAttr(t, modal, "aria-hidden", "true")
	uitest.ExpectNoAttr(t, p.El("header"), "inert")
	uitest.ExpectNoAttr(t, p.El("main"), "inert")
	uitest.ExpectNoAttr(t, p.El("footer"), "inert")
	if got := body.Style("overflow"); got != "" {
		t.Errorf("body overflow = %q, want cleared", got)
	}
	uitest.ExpectFocus(t, p.Doc, opener)
	if p.UI.Modals.Trapping() {
		t.Error("focus trap should be removed")
	}
}

func TestModalAriaHiddenFallback(t *testing.T) {
	p := uitest.New(t, testPage, uitest.WithoutInert())
	p.UI.Modals.Open("request")

	uitest.ExpectNoAttr(t, p.El("header"), "inert")
	uitest.ExpectAttr(t, p.El("header"), "aria-hidden", "true")
	uitest.ExpectAttr(t, p.El("footer"), "aria-hidden", "true")

	p.UI.Modals.Close("request")
	uitest.ExpectNoAttr(t, p.El("header"), "aria-hidden")
	uitest.ExpectAttr(t, p.El("footer"), "aria-hidden", "false")
}

func TestModalBackgroundSkipsRegionWithModal(t *testing.T) {
	p := uitest.New(t, `<html><body>
<header><a href="/">Home</a></header>
<main id="main"><div data-modal="m"><button id="b">OK</button></div></main>
<footer></footer>
</body></html>`)
	p.UI.Modals.Open("m")
	uitest.ExpectNoAttr(t, p.El("main"), "inert")
	uitest.ExpectAttr(t, p.El("header"), "inert", "")
	uitest.ExpectFocus(t, p.Doc, p.El("#b"))
}

func TestModalFocusTrapWraps(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("request")

	p.Focus("#submit")
	ev := p.Key("Tab")
	if !ev.DefaultPrevented() {
		t.Error("Tab at the last element should be prevented")
	}
	uitest.ExpectFocus(t, p.Doc, p.El("#close-x"))

	ev = p.ShiftKey("Tab")
	if !ev.DefaultPrevented() {
		t.Error("Shift+Tab at the first element should be prevented")
	}
	uitest.ExpectFocus(t, p.Doc, p.El("#submit"))
}

func TestModalTabInsideMovesForward(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("request")

	p.Focus("#name")
	ev := p.Key("Tab")
	if ev.DefaultPrevented() {
		t.Error("Tab in the middle of the modal should keep the default")
	}
	uitest.ExpectFocus(t, p.Doc, p.El("#phone"))
}

func TestModalTrapWithAriaHiddenFallback(t *testing.T) {
	p := uitest.New(t, testPage, uitest.WithoutInert())
	p.UI.Modals.Open("request")
	p.Focus("#message")
	p.Key("Tab")
	uitest.ExpectFocus(t, p.Doc, p.El("#submit"))
	p.Key("Tab")
	uitest.ExpectFocus(t, p.Doc, p.El("#close-x"))
}

func TestModalDialogFallbackFocus(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("info")
	dialog := p.El("#info-dialog")
	uitest.ExpectAttr(t, dialog, "tabindex", "-1")
	uitest.ExpectFocus(t, p.Doc, dialog)

	ev := p.Key("Tab")
	if !ev.DefaultPrevented() {
		t.Error("Tab in a modal without tabbables should be prevented")
	}
	uitest.ExpectFocus(t, p.Doc, dialog)
}

func TestModalCloseOnNestedCloseControl(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("request")
	p.Click("#close-icon")
	if p.UI.Modals.IsOpen("request") {
		t.Fatal("click inside a close control should close the modal")
	}
}

func TestModalClickInsideDoesNotClose(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("request")
	p.Click("#name")
	if !p.UI.Modals.IsOpen("request") {
		t.Fatal("modal closed on a plain click")
	}
}

func TestModalEscape(t *testing.T) {
	p := uitest.New(t, testPage)
	p.UI.Modals.Open("info")
	p.Key("Escape")
	if p.UI.Modals.IsOpen("info") {
		t.Fatal("Escape should close the open modal")
	}
	// Nothing open: Escape is a no-op.
	p.Patches()
	p.Key("Escape")
	if n := len(p.Patches()); n != 0 {
		t.Fatalf("Escape with no open modal recorded %d patches", n)
	}
}

func TestModalUnknownName(t *testing.T) {
	p := uitest.New(t, testPage)
	if p.UI.Modals.Open("missing") {
		t.Fatal("Open of unknown modal reported true")
	}
	if p.UI.Modals.Close("missing") {
		t.Fatal("Close of unknown modal reported true")
	}
}

func TestModalSecondOpenReplacesTrap(t *testing.T) {
	p := uitest.New(t, testPage)
	base := p.Doc.ListenerCount(dom.EventKeyDown)

	p.UI.Modals.Open("request")
	p.UI.Modals.Open("info")

	if got := p.Doc.ListenerCount(dom.EventKeyDown); got != base+1 {
		t.Fatalf("keydown listeners = %d, want %d", got, base+1)
	}
	if !p.UI.Modals.IsOpen("request") || !p.UI.Modals.IsOpen("info") {
		t.Fatal("opening a second modal leaves the first open")
	}

	// Escape targets the first open modal in document order.
	p.Key("Escape")
	if p.UI.Modals.IsOpen("request") {
		t.Fatal("Escape should close the first open modal")
	}
	if !p.UI.Modals.IsOpen("info") {
		t.Fatal("second modal should remain open")
	}
}

func TestModalRestoreSkipsDetachedElement(t *testing.T) {
	p := uitest.New(t, `<html><body>
<div id="holder"><button id="opener" data-open-modal="m">Open</button></div>
<div data-modal="m"><button id="ok" data-close-modal>OK</button></div>
</body></html>`)
	p.Focus("#opener")
	p.Click("#opener")
	p.El("#holder").SetText("")
	p.Click("#ok")
	uitest.ExpectFocus(t, p.Doc, p.El("#ok"))
}

func TestModalResumeKeepsFocus(t *testing.T) {
	p := uitest.New(t, testPage)
	p.Focus("#message")
	p.UI.Restore(p.El("#request"))

	uitest.ExpectClass(t, p.El("#request"), ui.ClassOpen)
	uitest.ExpectAttr(t, p.El("main"), "inert", "")
	if got := p.El("body").Style("overflow"); got != "hidden" {
		t.Errorf("body overflow = %q, want hidden", got)
	}
	uitest.ExpectFocus(t, p.Doc, p.El("#message"))
	if !p.UI.Modals.Trapping() {
		t.Fatal("resumed modal should trap focus")
	}

	p.Focus("#submit")
	p.Key("Tab")
	uitest.ExpectFocus(t, p.Doc, p.El("#close-x"))

	// No opener is known after a resume, so focus stays put on close.
	p.Key("Escape")
	uitest.ExpectNoClass(t, p.El("#request"), ui.ClassOpen)
	uitest.ExpectNoAttr(t, p.El("main"), "inert")
	uitest.ExpectFocus(t, p.Doc, p.El("#close-x"))
}
