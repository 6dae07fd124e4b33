package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peekmark.toml")
	if err := os.WriteFile(path, []byte("[reveal]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t)
	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[reveal]\nmath = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, events)
	if ev.Path != path {
		t.Errorf("Path = %q, want %q", ev.Path, path)
	}
}

func TestWatcherSeesCreation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.yaml")

	w := newWatcher(t)
	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() of missing file error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("IsWatching() = false")
	}

	if err := os.WriteFile(path, []byte("reveal: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, events)
}

func TestWatcherUnwatchAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.toml")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("IsWatching() = true after Unwatch")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := w.Watch(path); !errors.Is(err, ErrClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrClosed", err)
	}
}

func TestOperationOf(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := operationOf(tt.op)
		if got != tt.want || ok != tt.ok {
			t.Errorf("operationOf(%v) = %v, %v; want %v, %v", tt.op, got, ok, tt.want, tt.ok)
		}
	}
}
