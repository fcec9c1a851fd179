// Package watcher implements notebook file watching for watch mode.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher implements notebook watching using fsnotify. It watches the
// directories containing the notebooks rather than the files
// themselves, so editors that save by writing a temp file and renaming
// it over the original are still observed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	watched   map[string]struct{}
	hashes    *HashCache
}

// NewWatcher creates a new notebook watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		watched:   make(map[string]struct{}),
		hashes:    NewHashCache(),
	}, nil
}

// Watch begins watching the given notebook files. onChange receives
// coalesced batches of paths whose content actually changed.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func(changed []string)) error {
	dirs := make(map[string]struct{})

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		w.watched[abs] = struct{}{}
		w.hashes.Prime(abs)
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	debouncer := NewDebouncer(DefaultDebounceWindow, onChange)
	go w.processEvents(ctx, debouncer)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// processEvents filters raw fsnotify events down to content changes of
// watched notebooks and feeds them to the debouncer.
func (w *Watcher) processEvents(ctx context.Context, debouncer *Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				debouncer.Flush()
				return
			}

			if event.Op&relevantOps == 0 {
				continue
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.watched[abs]; !watched {
				continue
			}

			// Touch-without-change saves are suppressed here.
			if w.hashes.Changed(abs) {
				debouncer.Add(abs)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				debouncer.Flush()
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}
