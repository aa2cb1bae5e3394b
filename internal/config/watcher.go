// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 200 * time.Millisecond

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reloads a config file when it changes on disk. It watches the
// parent directory so that editors which save by rename are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	updates chan *Config
	errs    chan error

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for path. A non-positive debounce selects
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan *Config, 1),
		errs:     make(chan error, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers each successfully reloaded config. Only the newest
// pending config is kept when the reader falls behind.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Errors delivers reload failures, such as a file that no longer parses.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.sendErr(err)
		return
	}

	// Replace any undelivered config with the newer one.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	default:
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
