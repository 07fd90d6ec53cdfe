package dom

import "testing"

const focusPage = `<html><body>
<header><a id="logo" href="/">Logo</a></header>
<div id="box"><button id="b1">One</button><input id="i1" name="x"><button id="b2" disabled>Off</button>
<input id="hid" type="hidden" name="h"><span id="s" tabindex="-1">span</span><a id="noh">no href</a></div>
<div id="hidden" hidden><button id="b3">Hidden</button></div>
<div id="mute" aria-hidden="true"><button id="b4">Muted</button></div>
</body></html>`

func TestIsFocusable(t *testing.T) {
	doc := mustParse(t, focusPage)
	cases := map[string]bool{
		"logo": true,
		"b1":   true,
		"i1":   true,
		"b2":   false,
		"hid":  false,
		"s":    true,
		"noh":  false,
		"b3":   false,
		"b4":   true,
	}
	for id, want := range cases {
		if got := doc.GetElementByID(id).IsFocusable(); got != want {
			t.Errorf("%s: IsFocusable = %v, want %v", id, got, want)
		}
	}
}

func TestInertBlocksFocus(t *testing.T) {
	doc := mustParse(t, focusPage)
	doc.Query("header").SetAttr("inert", "")
	if doc.GetElementByID("logo").IsFocusable() {
		t.Error("element inside inert subtree should not be focusable")
	}
}

func TestTabbablesOrder(t *testing.T) {
	doc := mustParse(t, focusPage)
	var ids []string
	for _, el := range doc.Tabbables(nil) {
		ids = append(ids, el.ID())
	}
	want := []string{"logo", "b1", "i1"}
	if len(ids) != len(want) {
		t.Fatalf("tabbables = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("tabbables = %v, want %v", ids, want)
		}
	}
}

func TestFocusDispatchesBlurAndFocus(t *testing.T) {
	doc := mustParse(t, focusPage)
	b1 := doc.GetElementByID("b1")
	i1 := doc.GetElementByID("i1")
	var events []string
	b1.AddEventListener(EventBlur, func(ev *Event) { events = append(events, "blur b1") })
	i1.AddEventListener(EventFocus, func(ev *Event) { events = append(events, "focus i1") })

	b1.Focus()
	doc.TakePatches()
	if !i1.Focus() {
		t.Fatal("Focus returned false")
	}
	if doc.ActiveElement() != i1 {
		t.Fatalf("active = %v", doc.ActiveElement())
	}
	if len(events) != 2 || events[0] != "blur b1" || events[1] != "focus i1" {
		t.Errorf("events = %v", events)
	}
	patches := doc.TakePatches()
	if len(patches) != 1 || patches[0].Op != PatchFocus || patches[0].LID != i1.LID() {
		t.Errorf("patches = %+v", patches)
	}
}

func TestFocusRejectsUnfocusable(t *testing.T) {
	doc := mustParse(t, focusPage)
	if doc.GetElementByID("b2").Focus() {
		t.Error("disabled button should not take focus")
	}
	if doc.ActiveElement() != doc.Body() {
		t.Error("active element should fall back to body")
	}
}

func TestSetActiveRecordsNothing(t *testing.T) {
	doc := mustParse(t, focusPage)
	doc.TakePatches()
	doc.SetActive(doc.GetElementByID("b1"))
	if doc.PendingPatches() != 0 {
		t.Error("SetActive should not record patches")
	}
	if doc.ActiveElement().ID() != "b1" {
		t.Errorf("active = %v", doc.ActiveElement().ID())
	}
}

func TestTabDefaultActionWraps(t *testing.T) {
	doc := mustParse(t, focusPage)
	doc.GetElementByID("i1").Focus()

	doc.Dispatch(doc.ActiveElement(), NewKeyEvent("Tab", false))
	if got := doc.ActiveElement().ID(); got != "logo" {
		t.Errorf("after Tab active = %q, want logo", got)
	}
	doc.Dispatch(doc.ActiveElement(), NewKeyEvent("Tab", true))
	if got := doc.ActiveElement().ID(); got != "i1" {
		t.Errorf("after Shift+Tab active = %q, want i1", got)
	}
}

func TestTabDefaultSkippedWhenPreventedOrNative(t *testing.T) {
	doc := mustParse(t, focusPage)
	doc.GetElementByID("b1").Focus()

	ev := NewKeyEvent("Tab", false)
	ev.PreventDefault()
	doc.Dispatch(doc.ActiveElement(), ev)

	native := NewKeyEvent("Tab", false)
	native.NativeDefault = true
	doc.Dispatch(doc.ActiveElement(), native)

	if got := doc.ActiveElement().ID(); got != "b1" {
		t.Errorf("active = %q, want b1", got)
	}
}
