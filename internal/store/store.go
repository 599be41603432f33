package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// DefaultMaxBackups caps the rotating timestamped backups per location.
const DefaultMaxBackups = 5

const backupTimeFormat = "20060102_150405"

// Store loads and saves inventory workbooks. Callers are expected to
// serialize operations per location; the tracker service holds a
// per-location guard for that.
type Store struct {
	maxBackups int
	logger     *slog.Logger
}

// New creates a Store. maxBackups <= 0 falls back to DefaultMaxBackups.
func New(maxBackups int, logger *slog.Logger) *Store {
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{maxBackups: maxBackups, logger: logger}
}

// TempPath returns the temporary sibling the save pipeline writes before
// swapping it into place. Recovery probes the same path.
func TempPath(location string) string {
	return location + "_temp.xlsx"
}

func backupPath(location string) string {
	return location + ".bak"
}

// Load reads the previously persisted snapshot at location. A missing
// file yields an empty snapshot and no error (first run). A corrupt or
// schema-broken table yields an empty snapshot and an error wrapping
// apperr.ErrLoadCorrupt; the caller is expected to log it and proceed.
func (s *Store) Load(location string) (*models.Snapshot, error) {
	if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
		return models.NewSnapshot(nil), nil
	}
	records, err := readRecords(location)
	if err != nil {
		return models.NewSnapshot(nil), fmt.Errorf("%w: %v", apperr.ErrLoadCorrupt, err)
	}
	return models.NewSnapshot(records), nil
}

// Save persists records to location. The pipeline never destroys the
// previously good file before the replacement is proven valid:
//
//  1. notes are merge-protected against the currently persisted table,
//  2. the existing file is copied to the rolling .bak and a timestamped
//     rotating backup (capped),
//  3. the full table is written to a temporary sibling,
//  4. the temporary file is verified non-empty and re-parseable,
//  5. only then is the old file removed and the temp renamed into place.
//
// On any failure the original file is left untouched, the temp file is
// cleaned up, and an error is returned.
func (s *Store) Save(records []models.FileRecord, location string) error {
	rows := make([]models.FileRecord, len(records))
	copy(rows, records)
	s.mergeProtectNotes(rows, location)

	if fileExists(location) {
		if err := copyFile(location, backupPath(location)); err != nil {
			s.logger.Warn("save: rolling backup failed",
				slog.String("location", location),
				slog.String("error", err.Error()))
		}
		if err := s.rotateBackups(location); err != nil {
			s.logger.Warn("save: backup rotation failed",
				slog.String("location", location),
				slog.String("error", err.Error()))
		}
	}

	tmp := TempPath(location)
	if err := writeWorkbook(tmp, rows); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: write temp for %s: %w", location, err)
	}
	if err := verifyWorkbook(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: %s: %w: %v", location, apperr.ErrSaveVerification, err)
	}

	if fileExists(location) {
		if err := os.Remove(location); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("store: remove old %s: %w", location, err)
		}
	}
	if err := os.Rename(tmp, location); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: swap %s into place: %w", location, err)
	}

	s.logger.Info("inventory saved",
		slog.String("location", location),
		slog.Int("records", len(rows)))
	return nil
}

// mergeProtectNotes backfills empty notes in rows from the currently
// persisted table, so an accidental blank edit never erases a previously
// saved note. Best-effort: an unreadable existing table protects nothing.
func (s *Store) mergeProtectNotes(rows []models.FileRecord, location string) {
	if !fileExists(location) {
		return
	}
	existing, err := readRecords(location)
	if err != nil {
		s.logger.Warn("save: note merge-protect skipped",
			slog.String("location", location),
			slog.String("error", err.Error()))
		return
	}
	persisted := make(map[string]string, len(existing))
	for _, r := range existing {
		if r.ManualNotes != "" {
			persisted[r.FullPath] = r.ManualNotes
		}
	}
	for i := range rows {
		if strings.TrimSpace(rows[i].ManualNotes) == "" {
			if note, ok := persisted[rows[i].FullPath]; ok {
				rows[i].ManualNotes = note
			}
		}
	}
}

// rotateBackups copies location to a timestamped companion and evicts
// the oldest rotating backups beyond the configured cap.
func (s *Store) rotateBackups(location string) error {
	ts := time.Now().Format(backupTimeFormat)
	if err := copyFile(location, backupPath(location)+"."+ts); err != nil {
		return err
	}

	dir := filepath.Dir(location)
	prefix := filepath.Base(backupPath(location)) + "."
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type backup struct {
		path string
		mod  time.Time
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{
			path: filepath.Join(dir, e.Name()),
			mod:  info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].mod.Before(backups[j].mod) })

	for len(backups) > s.maxBackups {
		if err := os.Remove(backups[0].path); err != nil {
			return err
		}
		backups = backups[1:]
	}
	return nil
}

// Recover attempts to restore location from a leftover temp file or the
// rolling backup. It only acts when the target is missing or zero-length,
// and reports whether a recovery occurred. It never returns an error.
func (s *Store) Recover(location string) bool {
	if info, err := os.Stat(location); err == nil && info.Size() > 0 {
		return false
	}

	tmp := TempPath(location)
	if recoverable(tmp) {
		if err := os.Rename(tmp, location); err == nil {
			s.logger.Info("recovered inventory from temp file",
				slog.String("location", location))
			return true
		}
	} else if fileExists(tmp) {
		// A temp file that fails validation is an aborted write; drop it.
		_ = os.Remove(tmp)
	}

	bak := backupPath(location)
	if recoverable(bak) {
		if err := copyFile(bak, location); err == nil {
			s.logger.Info("recovered inventory from rolling backup",
				slog.String("location", location))
			return true
		}
	}

	s.logger.Debug("recovery exhausted, proceeding without previous inventory",
		slog.String("location", location))
	return false
}

// verifyWorkbook checks that path is a non-empty, re-parseable table
// carrying the primary-key column.
func verifyWorkbook(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	_, err = readRecords(path)
	return err
}

// recoverable reports whether path holds a usable table with at least
// one data row worth promoting.
func recoverable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}
	records, err := readRecords(path)
	return err == nil && len(records) > 0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
