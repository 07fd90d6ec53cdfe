package ui_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/landing/pkg/browser"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/ui"
)

func TestResolveControls(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testPage))
	if err != nil {
		t.Fatal(err)
	}
	c := ui.ResolveControls(doc)

	if c.Header == nil || c.Nav == nil || c.MenuButton == nil || c.Toast == nil || c.Form == nil || c.FormAlert == nil {
		t.Fatalf("missing controls: %+v", c)
	}
	if len(c.Modals) != 2 || c.Modal("request") == nil || c.Modal("info") == nil || c.Modal("nope") != nil {
		t.Errorf("modals = %d", len(c.Modals))
	}
	if len(c.NavLinks) != 2 {
		t.Errorf("nav links = %d, want 2", len(c.NavLinks))
	}
	if len(c.ErrorSlots) != 3 {
		t.Errorf("error slots = %d, want 3", len(c.ErrorSlots))
	}
	if len(c.Reveal) != 5 {
		t.Errorf("reveal candidates = %d, want 5", len(c.Reveal))
	}
	if len(c.Parallax) != 2 || c.Parallax[0].ID() != "glass" {
		t.Errorf("parallax targets = %d", len(c.Parallax))
	}
}

func TestNewEmptyPage(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><body></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	win := browser.New(doc, browser.NewManualScheduler(), browser.DefaultOptions())

	c := ui.New(doc, win, ui.WithLogger(logger))
	c.Nav.Toggle()
	c.Modals.Open("request")
	c.Form.Submit()
	c.Toast.Show("x")
	win.ScrollTo(100)

	if n := len(doc.TakePatches()); n != 0 {
		t.Fatalf("empty page recorded %d patches", n)
	}
	if !strings.Contains(buf.String(), "component=ui") {
		t.Errorf("expected component-scoped log, got %q", buf.String())
	}
}
