package blogindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/pkg/interfaces"
)

// DefaultDebounce is how long the watcher waits after the last change before
// rebuilding.
const DefaultDebounce = 200 * time.Millisecond

// BuildFunc receives the outcome of every watcher-triggered rebuild.
type BuildFunc func(manifest interfaces.Manifest, err error)

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// OnBuild registers a callback run after each rebuild.
func OnBuild(fn BuildFunc) WatcherOption {
	return func(w *Watcher) {
		w.onBuild = fn
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher reruns the builder whenever markdown files in the posts directory
// change. Rebuilds never overlap.
type Watcher struct {
	builder  *Builder
	debounce time.Duration
	onBuild  BuildFunc
	logger   interfaces.Logger

	mu sync.Mutex
}

// NewWatcher wraps builder.
func NewWatcher(builder *Builder, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		builder:  builder,
		debounce: DefaultDebounce,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Rebuild runs the builder while holding the rebuild lock.
func (w *Watcher) Rebuild(ctx context.Context) (interfaces.Manifest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	manifest, err := w.builder.Run(ctx)
	if w.onBuild != nil {
		w.onBuild(manifest, err)
	}
	return manifest, err
}

// Watch blocks until ctx ends. A posts directory that does not exist yet is
// logged and waited out rather than treated as an error.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("blogindex: start watcher: %w", err)
	}
	defer fw.Close()

	dir := w.builder.Config().PostsDir
	if err := fw.Add(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("blogindex.watch.posts_dir_missing", "posts_dir", dir)
			<-ctx.Done()
			return nil
		}
		return fmt.Errorf("blogindex: watch %s: %w", dir, err)
	}
	w.logger.Info("blogindex.watch.started", "posts_dir", dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("blogindex.watch.stopped")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("blogindex.watch.event", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("blogindex.watch.error", "error", err)
		case <-timer.C:
			if _, err := w.Rebuild(ctx); err != nil {
				w.logger.Error("blogindex.watch.rebuild_failed", "error", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, markdownExt) {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
