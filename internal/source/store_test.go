package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePage(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+PageExt), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCachesPage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home", "# Welcome")

	s := NewStore(dir)
	got, err := s.Load("home")
	if err != nil || got != "# Welcome" {
		t.Fatalf("load = %q, %v", got, err)
	}

	// A cached page survives the file changing until invalidated.
	writePage(t, dir, "home", "changed")
	if got, _ := s.Load("home"); got != "# Welcome" {
		t.Errorf("cache miss: got %q", got)
	}

	s.Invalidate("home")
	if got, _ := s.Load("home"); got != "changed" {
		t.Errorf("after invalidate got %q, want changed", got)
	}
}

func TestLoadMissingPage(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Load("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadRejectsEscapingNames(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`, ".."} {
		if _, err := s.Load(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Load(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestLoadAcceptsExtension(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about", "text")

	s := NewStore(dir)
	if got, err := s.Load("about.pv"); err != nil || got != "text" {
		t.Errorf("load with extension = %q, %v", got, err)
	}
}

func TestNames(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "a", "")
	writePage(t, dir, "b", "")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want [a b]", names)
	}
}

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home", "v1")

	s := NewStore(dir)
	if got, _ := s.Load("home"); got != "v1" {
		t.Fatal("setup load failed")
	}

	changed := make(chan string, 8)
	w, err := NewWatcher(s, func(name string) { changed <- name }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writePage(t, dir, "home", "v2")

	select {
	case name := <-changed:
		if name != "home" {
			t.Fatalf("changed = %q, want home", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}

	// Invalidation happened before the callback, so the next load sees
	// the new content.
	if got, _ := s.Load("home"); got != "v2" {
		t.Errorf("after change got %q, want v2", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	changed := make(chan string, 8)
	w, err := NewWatcher(s, func(name string) { changed <- name }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		t.Errorf("unexpected notification for %q", name)
	case <-time.After(300 * time.Millisecond):
	}
}
