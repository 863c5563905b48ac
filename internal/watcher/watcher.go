package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
	match         func(path string) bool
	settle        time.Duration

	mu   sync.Mutex
	seen map[string]bool
}

// Start handles files already in the input directory, then every new one,
// until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)

	if err := w.scanExisting(ctx); err != nil {
		w.logger.Warn(ctx, "Scanning %s: %v", w.inputDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			// A Rename reports the old path of a file leaving the directory.
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.match(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}
			if err := w.dispatch(ctx, event.Name, w.settle); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !w.match(e.Name()) {
			continue
		}
		if err := w.dispatch(ctx, filepath.Join(w.inputDir, e.Name()), 0); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler for path in its own goroutine once a slot is free.
// A path is handled at most once while its handler runs.
func (w *implWatcher) dispatch(ctx context.Context, path string, delay time.Duration) error {
	w.mu.Lock()
	if w.seen[path] {
		w.mu.Unlock()
		return nil
	}
	w.seen[path] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New audio detected: %s", path)

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer func() {
			w.mu.Lock()
			delete(w.seen, path)
			w.mu.Unlock()
		}()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}
