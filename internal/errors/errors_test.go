package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	e := New("E301")
	if e.Category != CategoryPublish || e.Message != "Bucket not configured" || e.Suggestion == "" {
		t.Fatalf("New(E301) = %+v", e)
	}
	if got := New("E999"); got.Message != "Unknown error" {
		t.Errorf("unknown code message = %q", got.Message)
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	e := New("E101").Wrap(fs.ErrNotExist)
	if got := e.Error(); got != "E101: Config file not readable: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(e, fs.ErrNotExist) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
	if Newf(CategoryCLI, "bad flag %q", "x").Error() != `bad flag "x"` {
		t.Error("Newf message")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("serve: %w", New("E201").Wrap(stderrors.New("address in use")))
	if !stderrors.Is(err, New("E201")) {
		t.Error("errors.Is does not match by code")
	}
	if stderrors.Is(err, New("E202")) {
		t.Error("errors.Is matched a different code")
	}
	if CodeOf(err) != "E201" || CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E101") != nil {
		t.Error("FromError(nil) != nil")
	}
	orig := New("E302")
	if FromError(fmt.Errorf("wrap: %w", orig), "E101") != orig {
		t.Error("FromError rewrapped an existing *Error")
	}
	plain := stderrors.New("boom")
	if e := FromError(plain, "E204"); e.Code != "E204" || e.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", e)
	}
}

func TestRegistryRanges(t *testing.T) {
	ranges := map[byte]Category{'1': CategoryConfig, '2': CategoryServer, '3': CategoryPublish, '4': CategoryProtocol}
	for _, code := range Codes() {
		tmpl, _ := Lookup(code)
		if want := ranges[code[1]]; tmpl.Category != want {
			t.Errorf("%s category = %s, want %s", code, tmpl.Category, want)
		}
		if tmpl.Message == "" {
			t.Errorf("%s has no message", code)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E301").Wrap(stderrors.New("missing flag")).Format()
	for _, want := range []string{"ERROR E301: Bucket not configured", "Publishing needs", "Cause: missing flag", "Hint: Pass --bucket"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	var buf bytes.Buffer
	Print(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Print(plain) = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if len(lines) < 2 {
		t.Errorf("wrapText produced %d lines", len(lines))
	}
}
