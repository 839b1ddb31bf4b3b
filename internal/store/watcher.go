package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CSVWatcher watches a sales CSV export and re-ingests it when the file
// settles after a change, so a long-running serve process tracks refreshed
// exports without a restart. Spreadsheet tools typically save via
// write-then-rename, hence the debounce window.
type CSVWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *SalesStore
	csvPath  string
	log      *zap.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewCSVWatcher creates a watcher for the CSV at csvPath feeding store.
func NewCSVWatcher(store *SalesStore, csvPath string, log *zap.Logger) (*CSVWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &CSVWatcher{
		watcher:  watcher,
		store:    store,
		csvPath:  filepath.Clean(csvPath),
		log:      log,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
// The parent directory is watched rather than the file itself so renames
// over the file are seen.
func (w *CSVWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.csvPath)); err != nil {
		return err
	}
	w.log.Info("watching sales export", zap.String("path", w.csvPath))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *CSVWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *CSVWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
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
			w.log.Warn("csv watcher error", zap.Error(err))
		case <-ticker.C:
			w.maybeReingest(ctx)
		}
	}
}

func (w *CSVWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.csvPath {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *CSVWatcher) maybeReingest(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	stats, err := w.store.IngestCSV(ctx, w.csvPath)
	if err != nil {
		w.log.Error("re-ingest failed", zap.String("path", w.csvPath), zap.Error(err))
		return
	}
	w.log.Info("re-ingested sales export",
		zap.String("path", w.csvPath),
		zap.Int64("rows", stats.Rows),
		zap.Int("columns", stats.Columns))
}
