package conform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher re-runs a function whenever one of a set of files changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	names    map[string]struct{}
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher watches the named files in dir. The directory rather than the
// files is watched so that files created later, or replaced by rename, are
// still seen.
func NewWatcher(dir string, names []string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[filepath.Base(n)] = struct{}{}
	}
	return &Watcher{watcher: fw, names: set, debounce: DefaultDebounce, logger: logger}, nil
}

// SetDebounce changes the quiet period before a change triggers a run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch calls run once and then after every change to a watched file until
// ctx is cancelled. Errors from run are logged and do not stop the watch.
// It returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context, run func(context.Context) error) error {
	w.call(ctx, run)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("settings changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.call(ctx, run)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.names[filepath.Base(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) call(ctx context.Context, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		w.logger.Error("run failed", zap.Error(err))
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
