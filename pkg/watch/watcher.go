// Package watch regenerates outputs when component sources change.
package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/propgen/pkg/scanner"
)

// Options configures file watching.
type Options struct {
	// DebounceMs is how long a file must stay quiet before it is reported,
	// and how long the batch waits for further files. Default: 200ms.
	DebounceMs int
	// Scan decides which files are sources and which directories are
	// skipped.
	Scan scanner.ScanConfig
}

// DefaultOptions returns a 200ms debounce over the default scan config.
func DefaultOptions() Options {
	return Options{DebounceMs: 200, Scan: scanner.DefaultScanConfig()}
}

// Handler receives a settled batch of changed source paths, sorted.
type Handler func(changed []string)

// Watcher watches a component tree and reports changed sources in batches.
//
// Each file is debounced on its own; once a file settles it joins the
// pending batch, and the batch is flushed to the handler after the same
// delay passes without another file settling.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	handler Handler
	logger  *slog.Logger
	options Options

	debounceTimers map[string]*time.Timer
	pending        map[string]struct{}
	flushTimer     *time.Timer
	batches        int
	debounceMu     sync.Mutex
	// handlerMu serializes handler calls across flush timers.
	handlerMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// Stats reports watcher state.
type Stats struct {
	PendingFiles int
	Batches      int
	IsRunning    bool
}

// New creates a watcher over root. handler runs on a timer goroutine; calls
// never overlap, and a batch that settles while the handler runs waits for
// it to return.
func New(root string, options Options, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = 200
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:        w,
		root:           absRoot,
		handler:        handler,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		pending:        make(map[string]struct{}),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start adds watches for root and its non-excluded subdirectories and
// begins processing events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	w.logger.Info("file watcher started", "root", w.root, "debounce_ms", w.options.DebounceMs)
	go w.eventLoop()
	return nil
}

// Stop stops watching. Pending changes are dropped. Safe to call more than
// once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	if w.flushTimer != nil {
		w.flushTimer.Stop()
	}
	w.pending = make(map[string]struct{})
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

// Stats returns a snapshot of watcher state.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	running := !w.stopped
	w.mu.Unlock()

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	return Stats{
		PendingFiles: len(w.debounceTimers) + len(w.pending),
		Batches:      w.batches,
		IsRunning:    running,
	}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.excluded(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(path); err == nil && isDir {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !w.isSource(path) {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	w.debounce(path)
}

// debounce restarts path's timer; when it fires the path joins the batch.
func (w *Watcher) debounce(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(w.delay(), func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.pending[path] = struct{}{}
		if w.flushTimer != nil {
			w.flushTimer.Stop()
		}
		w.flushTimer = time.AfterFunc(w.delay(), w.flush)
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) flush() {
	w.debounceMu.Lock()
	if len(w.pending) == 0 || len(w.debounceTimers) > 0 {
		// A file still settling schedules another flush when its own timer
		// fires.
		w.debounceMu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	w.batches++
	w.debounceMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	sort.Strings(changed)
	w.logger.Info("changes settled", "files", len(changed))
	if w.handler != nil {
		w.handlerMu.Lock()
		defer w.handlerMu.Unlock()
		w.handler(changed)
	}
}

func (w *Watcher) delay() time.Duration {
	return time.Duration(w.options.DebounceMs) * time.Millisecond
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func (w *Watcher) excluded(path string) bool {
	rel, ok := w.rel(path)
	return ok && scanner.Excluded(w.options.Scan, rel)
}

func (w *Watcher) isSource(path string) bool {
	rel, ok := w.rel(path)
	return ok && scanner.Matches(w.options.Scan, rel)
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
