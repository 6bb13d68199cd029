package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/wishsync/internal/logging"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a Provider whenever the SQLite store file (or its journal)
// changes on disk, so that sign-ins and sign-outs made by other processes
// reach this one.
type Watcher struct {
	provider *Provider
	path     string
	debounce time.Duration
	logger   logging.Logger
}

func NewWatcher(p *Provider, dbPath string, logger logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{provider: p, path: dbPath, debounce: defaultDebounce, logger: logger}
}

// Run blocks until ctx is done. Bursts of file events within the debounce
// interval cause a single reload.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// the directory is watched: SQLite replaces and recreates journal files
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(w.path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.provider.Load(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "store watcher error", "error", err)
		}
	}
}
