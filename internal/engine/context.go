// Package engine owns the live UI state: the scene graph, the terminal
// driver, the dirty flag, and the callback tables. All of it hangs off
// an explicit EngineContext passed by reference; there are no package
// globals. The engine runs two cooperative tasks: a render loop gated
// on the dirty flag and an input loop blocked on the driver's event
// source.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/pageview/internal/scene"
	"github.com/dshills/pageview/internal/term"
)

// Default tuning.
const (
	DefaultScrollSpeed = 3
	DefaultFrameDelay  = 16 * time.Millisecond
)

// EventSink receives UI events for forwarding to the scripting layer.
// Emit delivers a named event for an element id; Invoke calls a script
// function by name, as named by a markup onclick attribute.
type EventSink interface {
	Emit(event, id string)
	Invoke(fn, id string)
}

// NavigateFunc is invoked when a link click records a navigation
// target on a viewport.
type NavigateFunc func(vp *scene.Viewport, target string)

// Options tunes an EngineContext.
type Options struct {
	// ScrollSpeed is rows scrolled per wheel notch.
	ScrollSpeed int

	// FrameDelay is the render loop's idle sleep between dirty checks.
	FrameDelay time.Duration
}

// EngineContext coordinates the scene graph, driver, and dispatch.
// The mutex serializes all graph access between the input and render
// tasks; event handlers run to completion under it.
type EngineContext struct {
	mu    sync.Mutex
	drv   term.Driver
	graph *scene.Graph
	dirty atomic.Bool

	scrollSpeed int
	frameDelay  time.Duration

	// Callback side tables keyed by element id. Elements stay plain
	// data; handlers are looked up at dispatch time.
	onClick  map[string]func()
	onToggle map[string]func(bool)
	onSubmit map[string]func(string)

	onNavigate NavigateFunc
	onResize   func(width, height int)
	sink       EventSink

	// Focus bookkeeping: at most one of focusField / (focusVP,
	// focusInput) is set, keeping focus exclusive across the tree.
	focusField *scene.TextField
	focusVP    *scene.Viewport
	focusInput string

	// Momentary press flags cleared after exactly one painted frame.
	pressedButtons   []*scene.Button
	pressedViewports []*scene.Viewport

	// Deferred callbacks collected during dispatch and run after the
	// lock is released, so handlers may call back into the engine.
	deferred []func()

	done     chan struct{}
	stopOnce sync.Once
	userQuit atomic.Bool
}

// New creates an engine context over a driver and scene graph.
func New(drv term.Driver, graph *scene.Graph, opts Options) *EngineContext {
	if opts.ScrollSpeed <= 0 {
		opts.ScrollSpeed = DefaultScrollSpeed
	}
	if opts.FrameDelay <= 0 {
		opts.FrameDelay = DefaultFrameDelay
	}
	return &EngineContext{
		drv:         drv,
		graph:       graph,
		scrollSpeed: opts.ScrollSpeed,
		frameDelay:  opts.FrameDelay,
		onClick:     make(map[string]func()),
		onToggle:    make(map[string]func(bool)),
		onSubmit:    make(map[string]func(string)),
		done:        make(chan struct{}),
	}
}

// Graph returns the scene graph.
func (e *EngineContext) Graph() *scene.Graph {
	return e.graph
}

// Update runs fn under the engine lock and marks the engine dirty.
// Graph mutations from outside event dispatch (navigation, resize,
// file watching) go through here so they cannot race a repaint.
func (e *EngineContext) Update(fn func()) {
	e.mu.Lock()
	fn()
	e.mu.Unlock()
	e.dirty.Store(true)
}

// MarkDirty requests a repaint on the next render wakeup.
func (e *EngineContext) MarkDirty() {
	e.dirty.Store(true)
}

// Dirty reports whether a repaint is pending.
func (e *EngineContext) Dirty() bool {
	return e.dirty.Load()
}

// OnClick registers a click handler for an element id.
func (e *EngineContext) OnClick(id string, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick[id] = fn
}

// OnToggle registers a checkbox handler for an element id. The handler
// receives the new checked state.
func (e *EngineContext) OnToggle(id string, fn func(bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onToggle[id] = fn
}

// OnSubmit registers a submit handler for a text field or markup input
// id, invoked with the field text when Enter is pressed while focused.
// The engine assigns no other meaning to Enter.
func (e *EngineContext) OnSubmit(id string, fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSubmit[id] = fn
}

// SetNavigateFunc installs the host hook for link navigation.
func (e *EngineContext) SetNavigateFunc(fn NavigateFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onNavigate = fn
}

// SetResizeFunc installs a hook invoked on terminal resize, before the
// repaint.
func (e *EngineContext) SetResizeFunc(fn func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onResize = fn
}

// SetEventSink installs the scripting-layer event sink.
func (e *EngineContext) SetEventSink(sink EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// FocusedField returns the focused scene text field, or nil. For
// markup inputs, FocusedInput applies instead.
func (e *EngineContext) FocusedField() *scene.TextField {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focusField
}

// FocusedInput returns the viewport and input id holding focus, or
// (nil, "").
func (e *EngineContext) FocusedInput() (*scene.Viewport, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focusVP, e.focusInput
}

// blurLocked clears any focus. Caller holds the lock.
func (e *EngineContext) blurLocked() {
	if e.focusField != nil {
		e.focusField.Focused = false
		e.focusField = nil
	}
	if e.focusVP != nil {
		if in, ok := e.focusVP.Inputs()[e.focusInput]; ok {
			in.Focused = false
		}
		e.focusVP = nil
		e.focusInput = ""
	}
}

// focusFieldLocked gives a scene text field exclusive focus.
func (e *EngineContext) focusFieldLocked(t *scene.TextField) {
	e.blurLocked()
	t.Focused = true
	e.focusField = t
}

// focusInputLocked gives a viewport markup input exclusive focus.
func (e *EngineContext) focusInputLocked(vp *scene.Viewport, id string) {
	e.blurLocked()
	vp.Input(id).Focused = true
	e.focusVP = vp
	e.focusInput = id
}

// queueCallback defers a callback until dispatch releases the lock.
func (e *EngineContext) queueCallback(fn func()) {
	if fn != nil {
		e.deferred = append(e.deferred, fn)
	}
}

// emitLocked queues a script event for delivery after dispatch.
func (e *EngineContext) emitLocked(event, id string) {
	sink := e.sink
	if sink == nil {
		return
	}
	e.queueCallback(func() { sink.Emit(event, id) })
}

// invokeLocked queues a script function call for delivery after
// dispatch. Used for markup onclick attributes.
func (e *EngineContext) invokeLocked(fn, id string) {
	sink := e.sink
	if sink == nil || fn == "" {
		return
	}
	e.queueCallback(func() { sink.Invoke(fn, id) })
}

// runDeferred runs and clears the deferred callbacks. Called without
// the lock held, still on the input goroutine, so events remain
// serialized.
func (e *EngineContext) runDeferred() {
	e.mu.Lock()
	queued := e.deferred
	e.deferred = nil
	e.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}
