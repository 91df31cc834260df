package engine

import (
	"time"

	"github.com/dshills/pageview/internal/term"
)

// Run drives the engine until Stop is called: a render goroutine that
// repaints whenever the dirty flag is set, and the input loop on the
// calling goroutine, blocked on the driver's event source. Run returns
// after both have wound down.
func (e *EngineContext) Run() {
	e.dirty.Store(true)

	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		for {
			select {
			case <-e.done:
				return
			default:
			}
			if e.dirty.Swap(false) {
				e.renderAll()
			}
			time.Sleep(e.frameDelay)
		}
	}()

	for {
		ev := e.drv.PollEvent()
		e.HandleEvent(ev)

		select {
		case <-e.done:
			<-renderDone
			return
		default:
		}
	}
}

// Stop shuts the loops down. Safe to call from any goroutine, including
// event handlers; a synthetic quit event wakes the blocked input loop.
func (e *EngineContext) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.drv.PostEvent(quitEvent())
	})
}

// Done returns a channel closed when the engine has been stopped.
func (e *EngineContext) Done() <-chan struct{} {
	return e.done
}

// UserQuit reports whether the engine was stopped by a quit keystroke
// rather than a programmatic Stop.
func (e *EngineContext) UserQuit() bool {
	return e.userQuit.Load()
}

func quitEvent() term.Event {
	return term.Event{Type: term.EventQuit}
}
