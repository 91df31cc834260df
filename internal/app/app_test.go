package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/pageview/internal/config"
	"github.com/dshills/pageview/internal/term"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Pages.Dir = t.TempDir()
	cfg.Logging.Path = "" // no log file in tests
	return cfg
}

func writePage(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".pv"), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestShowPageLoadsContent(t *testing.T) {
	cfg := testConfig(t)
	writePage(t, cfg.Pages.Dir, "index", "hello")

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	a.ShowPage("index")
	if a.CurrentPage() != "index" {
		t.Errorf("current = %q", a.CurrentPage())
	}

	a.View().Render(d, 1, 1)
	if got := d.Row(1); got != "hello" {
		t.Errorf("row 1 = %q, want hello", got)
	}
}

func TestShowMissingPageRendersEmpty(t *testing.T) {
	cfg := testConfig(t)

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	a.ShowPage("ghost")
	if a.CurrentPage() != "ghost" {
		t.Errorf("current = %q, want ghost", a.CurrentPage())
	}
	a.View().Render(d, 1, 1)
	if got := d.Row(1); got != "" {
		t.Errorf("missing page painted %q", got)
	}
}

func TestShowPageReadFailureReturnsOperationError(t *testing.T) {
	cfg := testConfig(t)
	// A directory where the page file should be makes the read fail
	// without the file being missing.
	if err := os.Mkdir(filepath.Join(cfg.Pages.Dir, "bad.pv"), 0o755); err != nil {
		t.Fatal(err)
	}

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	err := a.ShowPage("bad")
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %v, want OperationError", err)
	}
	if opErr.Target != "bad" {
		t.Errorf("target = %q, want bad", opErr.Target)
	}

	// The viewport still renders, just empty.
	a.View().Render(d, 1, 1)
	if got := d.Row(1); got != "" {
		t.Errorf("unreadable page painted %q", got)
	}
}

func TestPageScriptRunsOnLoad(t *testing.T) {
	cfg := testConfig(t)
	writePage(t, cfg.Pages.Dir, "index",
		"<checkbox:\"Agree\",id:\"agree\">\n"+
			"<script:\"init\">pageview.set_field(\"agree\", \"checked\", true)</script>")

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	a.ShowPage("index")
	if !a.View().Checked("agree") {
		t.Errorf("load script should have checked the box")
	}
}

func TestScriptsDisabledByConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Script.Enabled = false
	writePage(t, cfg.Pages.Dir, "index",
		"<checkbox:\"Agree\",id:\"agree\">\n"+
			"<script:\"init\">pageview.set_field(\"agree\", \"checked\", true)</script>")

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	a.ShowPage("index")
	if a.View().Checked("agree") {
		t.Errorf("disabled scripts must not run")
	}
}

func TestConfiguredTextboxWidth(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.TextboxWidth = 4
	writePage(t, cfg.Pages.Dir, "index", `<id:"name"><textbox>`)

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	a.ShowPage("index")
	a.View().Render(d, 1, 1)
	if hit := a.View().HitRegistry(4, 1); hit == nil || hit.Width != 4 {
		t.Errorf("hit = %+v, want width-4 input", hit)
	}
}

func TestRunNavigatesAndStops(t *testing.T) {
	cfg := testConfig(t)
	writePage(t, cfg.Pages.Dir, "index", `<link:"two","next page">`)
	writePage(t, cfg.Pages.Dir, "two", "arrived")

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	// Wait for the first frame so the link has bounds.
	waitFor(t, func() bool { return a.CurrentPage() == "index" })
	time.Sleep(100 * time.Millisecond)

	d.PostEvent(term.Event{Type: term.EventMouse, MouseButton: term.MouseLeft, MouseX: 2, MouseY: 1})
	waitFor(t, func() bool { return a.CurrentPage() == "two" })

	a.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after stop")
	}
}

func TestRunReturnsQuitOnCtrlQ(t *testing.T) {
	cfg := testConfig(t)
	writePage(t, cfg.Pages.Dir, "index", "hello")

	d := term.NewNullDriver(80, 24)
	a := New(cfg, d)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	waitFor(t, func() bool { return a.CurrentPage() == "index" })

	d.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyCtrlQ})

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Fatalf("run returned %v, want ErrQuit", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after quit key")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}
