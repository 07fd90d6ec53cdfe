package dom

import (
	"strings"
	"testing"
)

const testPage = `<!doctype html><html><head></head><body>
<header data-header class="site-header"><button data-menu-button>Menu</button>
<nav data-nav><a class="nav-link" href="#about">About</a></nav></header>
<main><section id="about" class="section"><p>Hi</p></section>
<form id="f"><input name="name" value="Ann"><textarea name="message">Hello</textarea></form></main>
</body></html>`

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseAssignsLIDs(t *testing.T) {
	doc := mustParse(t, testPage)

	nav := doc.Query("[data-nav]")
	if nav == nil {
		t.Fatal("nav not found")
	}
	if nav.LID() == "" {
		t.Fatal("expected live ID")
	}
	if got := doc.ByLID(nav.LID()); got != nav {
		t.Errorf("ByLID returned %v, want nav", got)
	}
	if nav.GetAttr(LIDAttr) != nav.LID() {
		t.Errorf("data-lid = %q, want %q", nav.GetAttr(LIDAttr), nav.LID())
	}
}

func TestParseKeepsExistingLIDs(t *testing.T) {
	doc := mustParse(t, `<html><body><div data-lid="x7" id="a"></div></body></html>`)
	if el := doc.ByLID("x7"); el == nil || el.ID() != "a" {
		t.Fatalf("expected element with existing lid, got %v", el)
	}
}

func TestParseLIDsNeverCollide(t *testing.T) {
	doc := mustParse(t, `<html><body><p data-lid="1" id="a"></p><p id="b"></p><p data-lid="1" id="c"></p></body></html>`)
	seen := map[string]string{}
	for _, id := range []string{"a", "b", "c"} {
		el := doc.GetElementByID(id)
		if prev, dup := seen[el.LID()]; dup {
			t.Fatalf("#%s and #%s share lid %q", prev, id, el.LID())
		}
		seen[el.LID()] = id
		if doc.ByLID(el.LID()) != el {
			t.Errorf("ByLID(%q) does not return #%s", el.LID(), id)
		}
	}
	if doc.GetElementByID("a").LID() != "1" {
		t.Errorf("first carrier of lid 1 lost it")
	}
}

func TestClassMutationsRecordPatches(t *testing.T) {
	doc := mustParse(t, testPage)
	doc.TakePatches()
	header := doc.Query("[data-header]")

	header.AddClass("is-scrolled")
	header.AddClass("is-scrolled")
	if !header.HasClass("is-scrolled") || !header.HasClass("site-header") {
		t.Fatalf("classes = %v", header.Classes())
	}
	header.RemoveClass("is-scrolled")
	header.RemoveClass("is-scrolled")

	patches := doc.TakePatches()
	if len(patches) != 2 {
		t.Fatalf("expected 2 patches, got %d: %+v", len(patches), patches)
	}
	if patches[0].Op != PatchAddClass || patches[1].Op != PatchRemoveClass {
		t.Errorf("unexpected ops %v %v", patches[0].Op, patches[1].Op)
	}
	if patches[0].LID != header.LID() || patches[0].Key != "is-scrolled" {
		t.Errorf("unexpected patch %+v", patches[0])
	}
}

func TestSetAttrSkipsUnchangedValue(t *testing.T) {
	doc := mustParse(t, testPage)
	doc.TakePatches()
	btn := doc.Query("[data-menu-button]")

	btn.SetAttr("aria-expanded", "false")
	btn.SetAttr("aria-expanded", "false")
	btn.RemoveAttr("aria-expanded")
	btn.RemoveAttr("aria-expanded")

	if n := len(doc.TakePatches()); n != 2 {
		t.Errorf("expected 2 patches, got %d", n)
	}
}

func TestStyleProperties(t *testing.T) {
	doc := mustParse(t, testPage)
	body := doc.Body()

	body.SetStyle("overflow", "hidden")
	body.SetStyle("--parallax-y", "4.00px")
	if got := body.Style("overflow"); got != "hidden" {
		t.Errorf("overflow = %q", got)
	}
	if got := body.GetAttr("style"); got != "overflow: hidden; --parallax-y: 4.00px" {
		t.Errorf("style = %q", got)
	}
	body.RemoveStyle("overflow")
	body.RemoveStyle("--parallax-y")
	if body.HasAttr("style") {
		t.Errorf("expected style attribute removed, got %q", body.GetAttr("style"))
	}
}

func TestSetText(t *testing.T) {
	doc := mustParse(t, testPage)
	p := doc.Query("section p")

	p.SetText("Bye")
	if got := p.TextContent(); got != "Bye" {
		t.Errorf("text = %q", got)
	}
	p.SetText("")
	if p.Node().FirstChild != nil {
		t.Error("expected no children after clearing text")
	}
}

func TestDispatchBubbles(t *testing.T) {
	doc := mustParse(t, testPage)
	link := doc.Query(".nav-link")
	nav := doc.Query("[data-nav]")

	var order []string
	link.AddEventListener(EventClick, func(ev *Event) { order = append(order, "link") })
	nav.AddEventListener(EventClick, func(ev *Event) {
		if ev.Target != link || ev.CurrentTarget != nav {
			t.Errorf("unexpected targets %v %v", ev.Target, ev.CurrentTarget)
		}
		order = append(order, "nav")
	})
	doc.AddEventListener(EventClick, func(ev *Event) { order = append(order, "document") })

	doc.Dispatch(link, NewEvent(EventClick))

	if strings.Join(order, ",") != "link,nav,document" {
		t.Errorf("order = %v", order)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := mustParse(t, testPage)
	link := doc.Query(".nav-link")
	link.AddEventListener(EventClick, func(ev *Event) { ev.StopPropagation() })
	reached := false
	doc.AddEventListener(EventClick, func(ev *Event) { reached = true })

	doc.Dispatch(link, NewEvent(EventClick))
	if reached {
		t.Error("document listener should not run after StopPropagation")
	}
}

func TestListenerRemove(t *testing.T) {
	doc := mustParse(t, testPage)
	calls := 0
	l := doc.AddEventListener(EventKeyDown, func(ev *Event) { calls++ })

	doc.Dispatch(nil, NewKeyEvent("Escape", false))
	l.Remove()
	l.Remove()
	doc.Dispatch(nil, NewKeyEvent("Escape", false))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := doc.ListenerCount(EventKeyDown); n != 0 {
		t.Errorf("ListenerCount = %d", n)
	}
}

func TestFormValuesAndReset(t *testing.T) {
	doc := mustParse(t, testPage)
	form := doc.GetElementByID("f")

	values := doc.FormValues(form)
	if values["name"] != "Ann" || values["message"] != "Hello" {
		t.Fatalf("values = %v", values)
	}

	doc.Control(form, "name").SyncValue("Bob")
	if doc.FormValues(form)["name"] != "Bob" {
		t.Error("SyncValue not reflected")
	}
	doc.TakePatches()

	doc.ResetForm(form)
	if doc.FormValues(form)["name"] != "Ann" {
		t.Error("reset did not restore default")
	}
	patches := doc.TakePatches()
	if len(patches) != 1 || patches[0].Op != PatchSetValue || patches[0].Value != "Ann" {
		t.Errorf("patches = %+v", patches)
	}
}

func TestInvalidSelectorMatchesNothing(t *testing.T) {
	doc := mustParse(t, testPage)
	if el := doc.Query("[[bad"); el != nil {
		t.Errorf("expected nil, got %v", el)
	}
	if els := doc.QueryAll("[[bad"); len(els) != 0 {
		t.Errorf("expected empty, got %d", len(els))
	}
}

func TestClosestAndContains(t *testing.T) {
	doc := mustParse(t, testPage)
	link := doc.Query(".nav-link")
	header := doc.Query("[data-header]")

	if got := link.Closest("[data-header]"); got != header {
		t.Errorf("Closest = %v", got)
	}
	if !header.Contains(link) || link.Contains(header) {
		t.Error("Contains mismatch")
	}
	if !link.Contains(link) {
		t.Error("Contains should be inclusive")
	}
}

func TestSetRecording(t *testing.T) {
	doc := mustParse(t, testPage)
	doc.TakePatches()
	doc.SetRecording(false)
	doc.Body().AddClass("x")
	if doc.PendingPatches() != 0 {
		t.Error("expected no patches while recording is off")
	}
}
