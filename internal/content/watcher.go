package content

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jinkyeom/sciencestop/internal/storage"
)

// ReloadCallback is called after a watcher-driven reload swapped in c.
type ReloadCallback func(c *Collection)

// Watch starts an fsnotify watcher on the provider's content directory and
// runs a fresh load cycle whenever articles change, until ctx is cancelled.
// Events are debounced; a reload that fails is logged and the collection
// already in store keeps being served. A reload that produces the same
// checksum is not swapped in.
//
// New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, store *Store, provider storage.Provider, opts Options, debounce time.Duration, logger *slog.Logger, cb ReloadCallback) error {
	if provider.Root() == "" {
		return errors.New("content: watch needs a directory-backed provider")
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	root := filepath.Join(provider.Root(), filepath.FromSlash(opts.Dir))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			reload(ctx, store, provider, opts, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleReload()
					continue
				}
			}

			// Removed or renamed directories show up without an extension.
			if storage.IsArticle(ev.Name) || ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func reload(ctx context.Context, store *Store, provider storage.Provider, opts Options, logger *slog.Logger, cb ReloadCallback) {
	c, err := Load(ctx, provider, opts, logger)
	if err != nil {
		logger.Warn("watcher: reload failed, keeping current collection", slog.String("error", err.Error()))
		return
	}
	if cur := store.Current(); cur != nil && cur.Checksum() == c.Checksum() {
		return
	}
	store.Swap(c)
	logger.Info("watcher: collection reloaded",
		slog.String("cycle", c.ID()),
		slog.Int("documents", c.Len()))
	if cb != nil {
		cb(c)
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
