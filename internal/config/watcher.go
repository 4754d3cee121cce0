package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/typely/typely/internal/logging"
)

// debounceWindow coalesces the event bursts editors produce when
// saving a file.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk and
// hands the parsed result to registered callbacks. A malformed file
// keeps the previous configuration.
type Watcher struct {
	path string
	log  *logging.Logger

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	onLoad  []func(*Config)
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher watches the config file at path. The parent directory is
// watched rather than the file itself so atomic rename-style saves
// keep working.
func NewWatcher(path string, log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Null
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		log:     log.WithComponent("config"),
		fsw:     fsw,
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// OnChange registers a callback for successful reloads.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoad = append(w.onLoad, fn)
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceWindow)
				fire = debounce.C
			} else {
				debounce.Reset(debounceWindow)
			}

		case <-fire:
			debounce = nil
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("reload of %s failed, keeping current configuration: %v", w.path, err)
		return
	}

	w.log.Info("configuration reloaded from %s", w.path)

	w.mu.Lock()
	callbacks := make([]func(*Config), len(w.onLoad))
	copy(callbacks, w.onLoad)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
