package file

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"medscore-backend/application/ports"
)

// CatalogWatcher reloads the catalog when definition files change. Editors
// fire bursts of events per save, so reloads are debounced.
type CatalogWatcher struct {
	dir      string
	catalogs ports.CatalogProvider
	logger   *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCatalogWatcher creates a watcher for the catalog directory
func NewCatalogWatcher(dir string, catalogs ports.CatalogProvider, logger *zap.Logger) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &CatalogWatcher{
		dir:      dir,
		catalogs: catalogs,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until the context is cancelled or Close is
// called.
func (w *CatalogWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
	w.logger.Info("Catalog watcher started", zap.String("dir", w.dir))
}

func (w *CatalogWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := w.catalogs.Reload(ctx); err != nil {
				w.logger.Error("Catalog reload failed, previous catalog stays active", zap.Error(err))
				continue
			}
			w.logger.Info("Catalog reloaded after file change")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Catalog watcher error", zap.Error(err))
		}
	}
}

// Close stops the watch loop
func (w *CatalogWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func isDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
