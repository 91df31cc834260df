package app

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dshills/pageview/internal/config"
	"github.com/dshills/pageview/internal/engine"
	"github.com/dshills/pageview/internal/scene"
	"github.com/dshills/pageview/internal/script"
	"github.com/dshills/pageview/internal/source"
	"github.com/dshills/pageview/internal/term"
)

// Application owns the wired-together program: one driver, one scene
// graph with a full-screen page viewport, the page store, and the
// optional script host.
type Application struct {
	cfg config.Config
	log *Logger

	drv   term.Driver
	graph *scene.Graph
	eng   *engine.EngineContext
	store *source.Store
	host  *script.Host
	view  *scene.Viewport

	mu      sync.Mutex
	current string
	running bool
}

// New wires an application over a driver. The driver is not
// initialized until Run.
func New(cfg config.Config, drv term.Driver) *Application {
	a := &Application{
		cfg:   cfg,
		log:   newLogger(cfg),
		drv:   drv,
		store: source.NewStore(cfg.Pages.Dir),
		graph: scene.NewGraph(),
	}

	a.graph.NewScene("main")
	a.view = a.graph.NewViewport("main", 80, 24, scene.Abs(1, 1))
	a.view.InputWidth = cfg.UI.TextboxWidth

	a.eng = engine.New(drv, a.graph, engine.Options{
		ScrollSpeed: cfg.UI.ScrollSpeed,
		FrameDelay:  cfg.FrameDelay(),
	})
	a.eng.SetNavigateFunc(a.handleNavigate)
	a.eng.SetResizeFunc(a.handleResize)

	if cfg.Script.Enabled {
		a.host = script.New(a.eng, a.log.WithComponent("script"), script.Options{
			CallTimeout: cfg.ScriptTimeout(),
		})
		a.eng.SetEventSink(a.host)
	}

	return a
}

// newLogger opens the configured log file. The terminal owns stderr,
// so a file that cannot be opened silences logging rather than
// polluting the screen.
func newLogger(cfg config.Config) *Logger {
	lc := LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Prefix: "pageview",
	}
	if cfg.Logging.Path != "" {
		if f, err := os.OpenFile(cfg.Logging.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			lc.Output = f
		}
	}
	return NewLogger(lc)
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.log
}

// Engine returns the engine context, for callback registration.
func (a *Application) Engine() *engine.EngineContext {
	return a.eng
}

// Graph returns the scene graph.
func (a *Application) Graph() *scene.Graph {
	return a.graph
}

// View returns the full-screen page viewport.
func (a *Application) View() *scene.Viewport {
	return a.view
}

// CurrentPage returns the name of the page the viewport shows.
func (a *Application) CurrentPage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Run initializes the driver, loads the start page, and blocks in the
// event loop until the engine stops. A quit keystroke surfaces as
// ErrQuit; a programmatic Stop returns nil.
func (a *Application) Run() error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	if err := a.drv.Init(); err != nil {
		return fmt.Errorf("%w: driver: %v", ErrInitialization, err)
	}
	defer a.drv.Fini()

	w, h := a.drv.Size()
	a.view.W, a.view.H = w, h

	watch, err := source.NewWatcher(a.store, a.handlePageChange, func(err error) {
		a.log.Warn("watcher error", "error", err)
	})
	if err != nil {
		// Live reload is a convenience; run without it.
		a.log.Warn("page watching disabled", "error", err)
	} else {
		defer watch.Close()
	}

	a.log.Info("starting", "pages", a.cfg.Pages.Dir, "start", a.cfg.Pages.Start)
	if err := a.ShowPage(a.cfg.Pages.Start); err != nil {
		return err
	}

	a.eng.Run()

	if a.host != nil {
		a.host.Close()
	}
	a.log.Info("shutdown")
	if a.eng.UserQuit() {
		return ErrQuit
	}
	return nil
}

// Stop shuts the application down.
func (a *Application) Stop() {
	a.eng.Stop()
}

// ShowPage loads a page into the main viewport, replacing its content,
// state, and scripts. Missing pages render empty and return nil; a page
// that exists but cannot be read renders empty and returns an
// OperationError.
func (a *Application) ShowPage(name string) error {
	return a.showPageIn(a.view, name)
}

func (a *Application) showPageIn(vp *scene.Viewport, name string) error {
	text, err := a.store.Load(name)
	var loadErr error
	switch {
	case errors.Is(err, source.ErrNotFound):
		a.log.Warn("page not found", "page", name)
		text = ""
	case err != nil:
		loadErr = NewOperationError("load page", name, err)
		text = ""
	}

	a.mu.Lock()
	a.current = name
	a.mu.Unlock()

	a.eng.SetViewportContent(vp, text)
	if a.host != nil {
		a.host.LoadPage(vp.Scripts())
	}
	a.log.Debug("page shown", "page", name)
	return loadErr
}

// handleNavigate follows a link or script navigation request.
func (a *Application) handleNavigate(vp *scene.Viewport, target string) {
	if target == "" {
		return
	}
	a.log.Debug("navigate", "target", target)
	if err := a.showPageIn(vp, target); err != nil {
		a.log.Error("page load failed", "error", err)
	}
}

// handleResize keeps the main viewport full-screen.
func (a *Application) handleResize(width, height int) {
	a.eng.Update(func() {
		a.view.W, a.view.H = width, height
	})
}

// handlePageChange reloads the visible page when its file changes on
// disk. Runs on the watcher goroutine.
func (a *Application) handlePageChange(name string) {
	if a.CurrentPage() != name {
		return
	}
	a.log.Info("page changed on disk", "page", name)
	if err := a.showPageIn(a.view, name); err != nil {
		a.log.Error("page reload failed", "error", err)
	}
}
