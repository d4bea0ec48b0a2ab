// Package watcher triggers project rebuilds when source files change.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks, invoking rebuild after each batch of changes under dir.
// Rapid event bursts (editors often write several times per save) are
// collapsed by the debounce window. Returns when ctx is cancelled.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, rebuild func()) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Debug("watching for changes", "dir", dir, "debounce", debounce)

	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("source changed", "file", ev.Name, "op", ev.Op.String())
			timerC = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timerC:
			timerC = nil
			rebuild()
		}
	}
}
