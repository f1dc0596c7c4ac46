package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/ports/outbound"
)

// Watcher reloads the corpus when a dataset file changes on disk. Editors
// and atomic-rename writers emit bursts of events per save, so reloads are
// debounced.
type Watcher struct {
	dataDir string
	loader  outbound.CorpusLoader
	logger  *zap.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending *time.Timer

	debounceDelay time.Duration

	// onReload, when set, runs after every successful reload (cache flush).
	onReload func(context.Context)
}

// NewWatcher creates a watcher over the dataset directory. Start must be
// called before any events are observed.
func NewWatcher(dataDir string, loader outbound.CorpusLoader, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create dataset watcher: %w", err)
	}
	return &Watcher{
		dataDir:       dataDir,
		loader:        loader,
		logger:        logger.Named("corpus-watcher"),
		watcher:       fw,
		debounceDelay: 500 * time.Millisecond,
	}, nil
}

// OnReload registers a hook invoked after each successful watch-triggered
// reload.
func (w *Watcher) OnReload(fn func(context.Context)) {
	w.onReload = fn
}

// Start begins watching the dataset directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dataDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dataDir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.run(ctx)
	w.logger.Info("watching dataset directory", zap.String("dir", w.dataDir))
	return nil
}

// Stop ends watching and releases the inotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isDatasetFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watch error", zap.Error(err))
		}
	}
}

// isDatasetFile keeps the watcher quiet about temp files written next to
// the dataset.
func (w *Watcher) isDatasetFile(path string) bool {
	switch strings.ToLower(filepath.Base(path)) {
	case ingredientsFile, recipesFile:
		return true
	}
	return false
}

// scheduleReload coalesces event bursts into one reload per save.
func (w *Watcher) scheduleReload(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounceDelay, func() {
		w.reload(ctx, path)
	})
}

func (w *Watcher) reload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Info("dataset changed, reloading corpus", zap.String("file", filepath.Base(path)))

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := w.loader.Load(loadCtx); err != nil {
		w.logger.Error("watch-triggered reload failed, previous snapshot kept", zap.Error(err))
		return
	}
	if w.onReload != nil {
		w.onReload(loadCtx)
	}
}
