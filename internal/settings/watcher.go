package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the settings file into a Shared when it changes on disk.
type Watcher struct {
	path   string
	shared *Shared

	mu       sync.Mutex
	onChange []func(Settings)
	closed   bool

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	wg      sync.WaitGroup
}

// NewWatcher creates a Watcher for the settings file at path.
func NewWatcher(path string, shared *Shared) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:   path,
		shared: shared,
		ctx:    ctx,
		cancel: cancel,
		errCh:  make(chan error, 1),
	}
}

// OnChange registers a callback invoked after every successful reload.
func (w *Watcher) OnChange(cb func(Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Errors returns reload and watch errors. Errors are dropped while the
// channel is full. The channel is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errCh
}

// Start begins watching. The directory is watched rather than the file so
// that editors replacing the file by rename are seen.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch settings directory: %w", err)
	}
	w.watcher = fw

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.Reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// Reload reads the settings file now. A missing or malformed file leaves
// the current settings untouched.
func (w *Watcher) Reload() {
	if _, err := os.Stat(w.path); err != nil {
		w.report(fmt.Errorf("reload settings: %w", err))
		return
	}

	s, err := Load(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload settings: %w", err))
		return
	}

	w.shared.Update(s)

	w.mu.Lock()
	callbacks := append([]func(Settings){}, w.onChange...)
	w.mu.Unlock()

	current := w.shared.Snapshot()
	for _, cb := range callbacks {
		cb(current)
	}
}

func (w *Watcher) report(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.errCh <- err:
	default:
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	var err error
	if w.watcher != nil {
		err = w.watcher.Close()
	}
	w.wg.Wait()

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.errCh)
	}
	w.mu.Unlock()
	return err
}
