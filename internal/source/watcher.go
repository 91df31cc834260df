package source

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates store entries when page files change on disk and
// reports the changed page name to a callback.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	onChange func(name string)
	onError  func(err error)

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher starts watching the store's directory. onChange runs on
// the watcher goroutine for every changed page; onError may be nil.
func NewWatcher(store *Store, onChange func(name string), onError func(err error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", store.Dir(), err)
	}

	w := &Watcher{
		store:    store,
		fsw:      fsw,
		onChange: onChange,
		onError:  onError,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	// Editors often write through temp files; match on the final name.
	name := PageName(strings.TrimSuffix(ev.Name, "~"))
	if name == "" {
		return
	}
	w.store.Invalidate(name)
	if w.onChange != nil {
		w.onChange(name)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
