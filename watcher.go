package dotlogs

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events editors emit for one save
const watchDebounce = 50 * time.Millisecond

// changeWatcher observes the configuration document and hands reload
// requests to a single consumer goroutine
type changeWatcher struct {
	watcher *fsnotify.Watcher
	name    string
	reload  func()

	suspended atomic.Int32
	requests  chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// newChangeWatcher watches the directory of path, since editors and atomic
// saves replace the file itself, and calls reload for changes to path
func newChangeWatcher(path string, reload func()) (*changeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmtErrorf("failed to create configuration watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmtErrorf("failed to watch '%s': %w", filepath.Dir(path), err)
	}

	w := &changeWatcher{
		watcher:  watcher,
		name:     filepath.Base(path),
		reload:   reload,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(2)
	go w.watchLoop()
	go w.reloadLoop()
	return w, nil
}

// Suspend ignores notifications until the matching Resume. Calls nest.
func (w *changeWatcher) Suspend() {
	w.suspended.Add(1)
}

// Resume re-enables notifications
func (w *changeWatcher) Resume() {
	w.suspended.Add(-1)
}

func (w *changeWatcher) watchLoop() {
	defer w.wg.Done()

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.suspended.Load() > 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			// A pending request already covers this change
			select {
			case w.requests <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			internalLog("configuration watcher error: %v\n", err)
		}
	}
}

func (w *changeWatcher) reloadLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case <-w.requests:
			if w.suspended.Load() > 0 {
				continue
			}
			w.reload()
		}
	}
}

// Close stops both goroutines and waits for an in-flight reload to finish
func (w *changeWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
