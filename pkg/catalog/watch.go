package catalog

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a schema file into a store whenever the file
// changes. Editors often replace files via rename, so the parent
// directory is watched and events are filtered by name.
type Watcher struct {
	store  *Store
	loader *FileLoader
	logger *slog.Logger
	fsw    *fsnotify.Watcher

	// OnReload, if set, is called after each successful reload with
	// the new snapshot.
	OnReload func(*Catalog)
}

// NewWatcher creates a watcher for the loader's schema file. The
// logger may be nil.
func NewWatcher(store *Store, loader *FileLoader, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(loader.Path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		store:  store,
		loader: loader,
		logger: logger,
		fsw:    fsw,
	}, nil
}

// Run processes file events until the context is canceled or the
// underlying watcher closes. It blocks; run it in a goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	target := filepath.Clean(w.loader.Path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.store.Reload(ctx, w.loader); err != nil {
				w.logger.Warn("schema reload failed, keeping previous snapshot",
					"path", target, "error", err)
				continue
			}
			w.logger.Info("schema reloaded",
				"path", target, "tables", w.store.Current().Len())
			if w.OnReload != nil {
				w.OnReload(w.store.Current())
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("schema watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
