// Package scanner walks a directory tree and produces the current set of
// file records, pending reconciliation against the previous snapshot.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/classify"
	"github.com/starford/othala/internal/models"
)

// Options controls a scan pass.
type Options struct {
	// ExcludedDirs are housekeeping directory names skipped entirely.
	ExcludedDirs []string
	// LockPrefix identifies transient lock/temp artifacts by file name
	// prefix (e.g. Office's "~$" companions).
	LockPrefix string
	// OutputFile is the absolute path of the persisted inventory; when it
	// lives inside the scanned tree it is excluded from the listing,
	// along with its backup and temp companions.
	OutputFile string
	// Rules are the topic rules applied to annotated document formats.
	Rules []classify.TopicRule
}

// Scan recursively enumerates root and returns one record per included
// file, in traversal order, with fresh status Added. Per-file failures
// are logged, collected into warnings, and skipped; only a missing or
// non-directory root aborts the scan.
func Scan(root string, opts Options, logger *slog.Logger) ([]models.FileRecord, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scanner: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("scanner: %s: %w", root, apperr.ErrFolderNotFound)
	}

	excluded := make(map[string]struct{}, len(opts.ExcludedDirs))
	for _, d := range opts.ExcludedDirs {
		excluded[d] = struct{}{}
	}

	var (
		records  []models.FileRecord
		warnings []string
	)
	warn := func(path string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
		logger.Warn("scan: skipping entry",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warn(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != absRoot {
				if _, skip := excluded[d.Name()]; skip {
					return fs.SkipDir
				}
			}
			return nil
		}
		name := d.Name()
		if opts.LockPrefix != "" && strings.HasPrefix(name, opts.LockPrefix) {
			return nil
		}
		if isInventoryArtifact(path, opts.OutputFile) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			warn(path, err)
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		records = append(records, models.FileRecord{
			FolderPath:   filepath.Dir(path),
			FileName:     name,
			Extension:    ext,
			SizeBytes:    fi.Size(),
			LastModified: fi.ModTime().Format(time.RFC3339),
			FullPath:     path,
			ContentHint:  classify.Hint(path, ext),
			Topics:       classify.Topics(path, ext, opts.Rules),
			Status:       models.StatusAdded,
			ManualNotes:  "",
		})
		return nil
	})
	if walkErr != nil {
		return nil, warnings, fmt.Errorf("scanner: walk %s: %w", root, walkErr)
	}
	return records, warnings, nil
}

// isInventoryArtifact reports whether path is the persisted inventory
// file or one of its backup/temp companions.
func isInventoryArtifact(path, outputFile string) bool {
	if outputFile == "" {
		return false
	}
	return path == outputFile || strings.HasPrefix(path, outputFile+".bak") ||
		strings.HasPrefix(path, outputFile+"_temp")
}
