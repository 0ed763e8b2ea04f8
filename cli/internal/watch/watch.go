// Package watch re-runs a callback when a command file changes, for
// translate --watch. Events are debounced: editors fire several writes
// per save and one re-translation per save is enough.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 300 * time.Millisecond

// Watcher observes one file and invokes the callback after each change.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// New watches the directory containing file; watching the file itself
// breaks on editors that replace-on-save.
func New(file string, callback func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		file:     abs,
		callback: callback,
		watcher:  fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the callback once, then again after each debounced change,
// until Stop. Callback errors are printed and watching continues; a
// broken edit should not kill the watch loop.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err == nil && abs == w.file {
				timer.Reset(debounce)
				pending = timer.C
			}
		case <-pending:
			pending = nil
			if err := w.callback(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch:", err)
		case <-w.done:
			return nil
		}
	}
}

// Stop ends the watch loop.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
