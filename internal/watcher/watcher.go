// Package watcher rescans a tracked folder when its contents change.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/othala/internal/tracker"
)

// Watch starts an fsnotify watcher on root and processes file change
// events until ctx is cancelled. Bursts of events are debounced into a
// single scan request through the tracker service, so the usual
// serialization guarantees hold.
//
// Events for the inventory workbook and its backup/temp companions are
// ignored; every save would otherwise trigger the next rescan.
func Watch(ctx context.Context, svc *tracker.Service, root, inventoryFilename string, debounce time.Duration, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	logger.Info("watcher: started",
		slog.String("root", root),
		slog.Duration("debounce", debounce))

	var rescanTimer *time.Timer
	var rescanCh <-chan time.Time

	scheduleRescan := func() {
		if rescanTimer == nil {
			rescanTimer = time.NewTimer(debounce)
			rescanCh = rescanTimer.C
		} else {
			rescanTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rescanTimer != nil {
				rescanTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rescanCh:
			res, err := svc.ScanFolder(ctx, root)
			if err != nil {
				logger.Warn("watcher: rescan failed",
					slog.String("root", root),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("watcher: rescan complete", slog.String("summary", res.Summary))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isInventoryArtifact(ev.Name, inventoryFilename) {
				continue
			}

			// New directories join the watch list immediately so files
			// created inside them are seen before the next full rescan.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}
			scheduleRescan()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isInventoryArtifact reports whether path is the persisted workbook or
// one of its companions (rolling/rotating backups, temp sibling).
func isInventoryArtifact(path, inventoryFilename string) bool {
	base := filepath.Base(path)
	return base == inventoryFilename ||
		strings.HasPrefix(base, inventoryFilename+".bak") ||
		strings.HasPrefix(base, inventoryFilename+"_temp")
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
