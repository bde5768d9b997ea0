package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"optalcp/internal/logging"
)

// Watcher reloads a Config from disk whenever its backing file changes,
// letting a long-running optalcp process (such as a benchmark
// orchestrator driving several Solver sessions) pick up solver
// discovery or logging changes without a restart (SPEC_FULL.md §4.11).
// It watches the file's containing directory rather than the file
// itself, the same way codeNERD's MangleWatcher does, since editors
// commonly replace a file rather than writing it in place.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onReload func(*Config)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher builds a Watcher for the config file at path. onReload is
// invoked, on its own goroutine, after each successful reload.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{watcher: fsw, path: path, onReload: onReload}, nil
}

// Start begins watching in the background. Non-blocking.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.run()
}

// Stop stops watching and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	log := logging.Get(logging.CategoryBoot)

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload(log)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload(log *logging.Logger) {
	cfg, err := Load(w.path)
	if err != nil {
		log.Warn("config reload failed for %s: %v", w.path, err)
		return
	}
	if err := logging.ReloadConfig(); err != nil {
		log.Warn("logging config reload failed: %v", err)
	}
	log.Info("config reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
