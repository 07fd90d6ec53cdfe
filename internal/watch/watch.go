// Package watch polls files for changes.
//
// Polling avoids platform notification APIs and works the same on
// network and container file systems. The intended use is a handful of
// content files, not whole source trees.
package watch

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"
)

// DefaultInterval is the polling interval used when none is given.
const DefaultInterval = 500 * time.Millisecond

type stamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Watcher reports changed files. Changes are batched per poll.
type Watcher struct {
	interval time.Duration
	paths    []string

	mu       sync.Mutex
	onChange func(paths []string)
	stamps   map[string]stamp
}

// New returns a watcher for paths. A zero interval uses DefaultInterval.
func New(interval time.Duration, paths ...string) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		interval: interval,
		paths:    append([]string(nil), paths...),
		stamps:   make(map[string]stamp),
	}
}

// OnChange sets the callback. It runs on the watcher goroutine.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start records the current state of every path and polls until ctx is
// done. Files created, modified or removed after Start are reported.
func (w *Watcher) Start(ctx context.Context) error {
	w.scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if changed := w.scan(); len(changed) > 0 {
				w.mu.Lock()
				fn := w.onChange
				w.mu.Unlock()
				if fn != nil {
					fn(changed)
				}
			}
		}
	}
}

// scan updates the recorded stamps and returns the paths that differ
// from the previous scan. The first scan reports nothing.
func (w *Watcher) scan() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	first := len(w.stamps) == 0
	var changed []string
	for _, p := range w.paths {
		cur := stampOf(p)
		prev, seen := w.stamps[p]
		w.stamps[p] = cur
		if first || !seen {
			continue
		}
		if cur != prev {
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed
}

func stampOf(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{modTime: info.ModTime(), size: info.Size(), exists: true}
}
