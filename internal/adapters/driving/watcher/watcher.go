package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// DefaultDebounce is how long a path must be quiet before it is sent.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Dir is the directory to watch. Subdirectories are not watched.
	Dir string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Camera sends every file as a camera capture, removed once compressed.
	Camera bool

	// Ignore lists directories whose contents are never sent, e.g. staging.
	Ignore []string

	// OnResult is called after each send. Optional.
	OnResult func(path string, record *domain.UploadRecord, err error)
}

// Watcher sends settled files through the pipeline.
type Watcher struct {
	pipeline driving.PipelineService
	cfg      Config

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for cfg.Dir.
func New(pipeline driving.PipelineService, cfg Config) (*Watcher, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline service is required")
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}
	cfg.Dir = dir
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	ignore := make([]string, 0, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			ignore = append(ignore, abs)
		}
	}
	cfg.Ignore = ignore

	return &Watcher{
		pipeline: pipeline,
		cfg:      cfg,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.cfg.Dir
}

// Run watches until ctx is cancelled. A send in progress is cancelled with ctx.
func (w *Watcher) Run(ctx context.Context) error {
	// Pending debounce callbacks unblock once Run returns
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	logger.Info("watching %s", w.cfg.Dir)

	settled := make(chan string)
	queue := make(chan string)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range queue {
			w.send(ctx, path)
		}
	}()

	defer func() {
		w.stopTimers()
		close(queue)
		wg.Wait()
	}()

	var pending []string
	for {
		// Only offer work to the sender when something is pending
		var out chan string
		var next string
		if len(pending) > 0 {
			out = queue
			next = pending[0]
		}

		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event, settled)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case path := <-settled:
			if !contains(pending, path) {
				pending = append(pending, path)
			}

		case out <- next:
			pending = pending[1:]
		}
	}
}

// handleEvent arms or disarms the debounce timer for the event's path.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, settled chan<- string) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		logger.Debug("watch %s: %s", event.Op, path)
		w.arm(ctx, path, settled)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.disarm(path)
	}
}

// arm restarts the quiet period for path.
func (w *Watcher) arm(ctx context.Context, path string, settled chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case settled <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) disarm(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// send uploads one settled file.
func (w *Watcher) send(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		logger.Debug("watch skip %s", path)
		return
	}

	req := driving.SendRequest{Path: path}
	if w.cfg.Camera {
		req.Kind = domain.FileKindImage
		req.Source = domain.ImageSourceCamera
	}

	record, err := w.pipeline.Send(ctx, req)
	if err != nil {
		logger.Error("send %s: %v", path, err)
	}
	if w.cfg.OnResult != nil {
		w.cfg.OnResult(path, record, err)
	}
}

// ignored reports whether path is hidden or inside an ignored directory.
func (w *Watcher) ignored(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	for _, dir := range w.cfg.Ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
