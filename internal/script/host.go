// Package script hosts page Lua in a sandboxed interpreter. Scripts
// react to UI events through a pageview module; the host serializes
// all interpreter access, since a Lua state is not goroutine-safe, and
// treats script errors as log lines, never as failures.
package script

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pageview/internal/engine"
)

// DefaultCallTimeout bounds a single script call.
const DefaultCallTimeout = 100 * time.Millisecond

// API is the engine surface exposed to page scripts.
type API interface {
	ElementField(id, field string) (string, error)
	SetElementField(id, field, value string) error
	Navigate(target string)
	MarkDirty()
}

// Logger is the subset of the app logger the host needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options tunes a Host.
type Options struct {
	// CallTimeout bounds a single handler or function call.
	CallTimeout time.Duration
}

// Host runs the scripts of the currently loaded page. It implements
// engine.EventSink, so UI events flow into registered Lua handlers.
type Host struct {
	mu      sync.Mutex
	api     API
	log     Logger
	timeout time.Duration

	state    *lua.LState
	handlers map[string][]*lua.LFunction

	// Navigation targets requested during a script call, applied after
	// the interpreter lock is released. Navigating reloads the page,
	// which re-enters the host.
	pendingNav []string
}

var _ engine.EventSink = (*Host)(nil)

// New creates a script host over the engine API.
func New(api API, log Logger, opts Options) *Host {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	return &Host{
		api:     api,
		log:     log,
		timeout: opts.CallTimeout,
	}
}

// LoadPage replaces the interpreter with a fresh sandboxed state and
// runs the page's script blocks in name order. Script errors are
// logged and the remaining blocks still run.
func (h *Host) LoadPage(scripts map[string]string) {
	h.mu.Lock()

	h.closeLocked()
	if len(scripts) == 0 {
		h.mu.Unlock()
		return
	}

	L := lua.NewState()
	sandbox(L)
	h.state = L
	h.handlers = make(map[string][]*lua.LFunction)
	h.register(L)

	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.run(scripts[name]); err != nil {
			h.logWarn("script block failed", "name", name, "error", err)
		}
	}

	h.unlockAndNavigate()
}

// Emit delivers a UI event to every handler registered for it.
// Implements engine.EventSink.
func (h *Host) Emit(event, id string) {
	h.mu.Lock()

	if h.state == nil {
		h.mu.Unlock()
		return
	}
	for _, fn := range h.handlers[event] {
		if err := h.call(fn, lua.LString(id)); err != nil {
			h.logWarn("script handler failed", "event", event, "id", id, "error", err)
		}
	}

	h.unlockAndNavigate()
}

// Invoke calls a script function by global name, as named by a markup
// onclick attribute. Implements engine.EventSink.
func (h *Host) Invoke(fnName, id string) {
	h.mu.Lock()

	if h.state == nil {
		h.mu.Unlock()
		return
	}
	fn, ok := h.state.GetGlobal(fnName).(*lua.LFunction)
	if !ok {
		h.logDebug("onclick names no function", "fn", fnName)
		h.mu.Unlock()
		return
	}
	if err := h.call(fn, lua.LString(id)); err != nil {
		h.logWarn("onclick handler failed", "fn", fnName, "id", id, "error", err)
	}

	h.unlockAndNavigate()
}

// Close releases the interpreter.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked()
}

func (h *Host) closeLocked() {
	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
	h.handlers = nil
}

// run executes a script chunk under the call budget. Caller holds the
// lock.
func (h *Host) run(src string) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.state.SetContext(ctx)
	defer h.state.RemoveContext()
	return h.state.DoString(src)
}

// call invokes one Lua function under the call budget. Caller holds
// the lock.
func (h *Host) call(fn *lua.LFunction, args ...lua.LValue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New("lua panic")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.state.SetContext(ctx)
	defer h.state.RemoveContext()

	return h.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
}

// register installs the pageview module.
func (h *Host) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get_element", L.NewFunction(h.luaGetElement))
	L.SetField(mod, "set_field", L.NewFunction(h.luaSetField))
	L.SetField(mod, "navigate", L.NewFunction(h.luaNavigate))
	L.SetField(mod, "on", L.NewFunction(h.luaOn))
	L.SetGlobal("pageview", mod)
}

// elementFields are the addressable fields copied into get_element
// tables. Absent fields are simply omitted.
var elementFields = []string{"text", "checked", "fg", "bg"}

func (h *Host) luaGetElement(L *lua.LState) int {
	id := L.CheckString(1)

	if _, err := h.api.ElementField(id, "text"); errors.Is(err, engine.ErrNoElement) {
		L.Push(lua.LNil)
		return 1
	}

	tbl := L.NewTable()
	L.SetField(tbl, "id", lua.LString(id))
	for _, field := range elementFields {
		v, err := h.api.ElementField(id, field)
		if err != nil {
			continue
		}
		if field == "checked" {
			L.SetField(tbl, field, lua.LBool(v == "true"))
			continue
		}
		L.SetField(tbl, field, lua.LString(v))
	}
	L.Push(tbl)
	return 1
}

func (h *Host) luaSetField(L *lua.LState) int {
	id := L.CheckString(1)
	field := L.CheckString(2)
	value := L.Get(3)

	if err := h.api.SetElementField(id, field, value.String()); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaNavigate(L *lua.LState) int {
	h.pendingNav = append(h.pendingNav, L.CheckString(1))
	return 0
}

func (h *Host) luaOn(L *lua.LState) int {
	event := L.CheckString(1)
	fn := L.CheckFunction(2)
	h.handlers[event] = append(h.handlers[event], fn)
	return 0
}

// unlockAndNavigate releases the interpreter lock, then applies any
// navigation a script requested during the call.
func (h *Host) unlockAndNavigate() {
	nav := h.pendingNav
	h.pendingNav = nil
	h.mu.Unlock()

	for _, target := range nav {
		h.api.Navigate(target)
	}
}

func (h *Host) logWarn(msg string, args ...any) {
	if h.log != nil {
		h.log.Warn(msg, args...)
	}
}

func (h *Host) logDebug(msg string, args ...any) {
	if h.log != nil {
		h.log.Debug(msg, args...)
	}
}
