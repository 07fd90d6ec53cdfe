package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScanReportsChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(a, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(time.Hour, a, b)
	if got := w.scan(); len(got) != 0 {
		t.Fatalf("first scan reported %v", got)
	}
	if got := w.scan(); len(got) != 0 {
		t.Fatalf("unchanged scan reported %v", got)
	}

	if err := os.WriteFile(a, []byte("three"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := w.scan()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("scan = %v, want [%s %s]", got, a, b)
	}

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	if got := w.scan(); len(got) != 1 || got[0] != a {
		t.Fatalf("removal scan = %v", got)
	}
}

func TestStartCallsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(10*time.Millisecond, path)
	changes := make(chan []string, 4)
	w.OnChange(func(paths []string) { changes <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give Start time to record the initial state.
	time.Sleep(30 * time.Millisecond)
	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		if len(got) != 1 || got[0] != path {
			t.Errorf("changes = %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
}

func TestNewDefaultInterval(t *testing.T) {
	if w := New(0); w.interval != DefaultInterval {
		t.Errorf("interval = %v", w.interval)
	}
}
