package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Option customizes a Watcher.
type Option func(*implWatcher)

// WithMatcher replaces the audio file filter.
func WithMatcher(match func(path string) bool) Option {
	return func(w *implWatcher) {
		w.match = match
	}
}

// WithSettleDelay sets how long to wait after a create event before handling
// the file, so that writers can finish.
func WithSettleDelay(d time.Duration) Option {
	return func(w *implWatcher) {
		w.settle = d
	}
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int, opts ...Option) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	w := &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		match:         models.IsAudioFile,
		settle:        500 * time.Millisecond,
		seen:          make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
