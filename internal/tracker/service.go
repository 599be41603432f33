// Package tracker coordinates scanning, reconciliation, and persistence
// for tracked folders. It is the library boundary collaborators call.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/classify"
	"github.com/starford/othala/internal/inventory"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/scanner"
	"github.com/starford/othala/internal/store"
)

// actionOpen is the affordance value presentation rows carry in their
// first column; what a caller does with it is its own concern.
const actionOpen = "open"

// Options configures a tracker service.
type Options struct {
	// InventoryFilename is the workbook name persisted inside each
	// tracked folder.
	InventoryFilename string
	// ExcludedDirs, LockPrefix and Rules are passed through to the scanner.
	ExcludedDirs []string
	LockPrefix   string
	Rules        []classify.TopicRule
}

// Service runs inventory operations. Operations on the same resolved
// location are serialized with an in-process guard; the store itself is
// lock-free.
type Service struct {
	store  *store.Store
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	locks     map[string]*sync.Mutex
	snapshots map[string]*models.Snapshot
}

// New creates a tracker service.
func New(st *store.Store, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     st,
		opts:      opts,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
		snapshots: make(map[string]*models.Snapshot),
	}
}

// ScanResult is the outcome of one scan-and-reconcile pass.
type ScanResult struct {
	Location string           `json:"location"`
	Counts   models.Counts    `json:"counts"`
	Warnings []string         `json:"warnings,omitempty"`
	Summary  string           `json:"summary"`
	Snapshot *models.Snapshot `json:"-"`
}

// Row is the fixed presentation projection of a record.
type Row struct {
	Action       string `json:"action"`
	FileName     string `json:"file_name"`
	Status       string `json:"status"`
	LastModified string `json:"last_modified"`
	Topics       string `json:"topics"`
	ContentHint  string `json:"content_hint"`
	ManualNotes  string `json:"manual_notes"`
	FullPath     string `json:"full_path"`
}

// ScanFolder scans folder, reconciles against the persisted snapshot,
// and saves the merged result. A missing or non-directory folder fails
// with apperr.ErrFolderNotFound before any table is touched; a failed
// save is returned as an explicit error with the original file intact.
func (s *Service) ScanFolder(ctx context.Context, folder string) (*ScanResult, error) {
	location, err := s.resolveLocation(folder)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(location)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.store.Recover(location)

	previous, err := s.store.Load(location)
	if err != nil {
		// Corrupt previous table: proceed from empty, per load policy.
		s.logger.Warn("scan: previous inventory unusable",
			slog.String("location", location),
			slog.String("error", err.Error()))
	}

	current, warnings, err := scanner.Scan(folder, scanner.Options{
		ExcludedDirs: s.opts.ExcludedDirs,
		LockPrefix:   s.opts.LockPrefix,
		OutputFile:   location,
		Rules:        s.opts.Rules,
	}, s.logger)
	if err != nil {
		return nil, err
	}

	merged, counts := inventory.Reconcile(current, previous)

	if err := s.store.Save(merged.Records(), location); err != nil {
		return nil, err
	}
	s.setSnapshot(location, merged)

	return &ScanResult{
		Location: location,
		Counts:   counts,
		Warnings: warnings,
		Summary:  summarize(counts),
		Snapshot: merged,
	}, nil
}

// SaveNotes applies per-record note edits keyed by full path and
// persists the snapshot. Unknown keys are ignored; clearing a note is
// not possible through this path because the store merge-protects
// empty notes against the persisted table.
func (s *Service) SaveNotes(ctx context.Context, folder string, notes map[string]string) (*ScanResult, error) {
	location, err := s.resolveLocation(folder)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(location)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := s.currentSnapshot(location)
	if err != nil {
		return nil, err
	}
	for fullPath, note := range notes {
		snap.SetNotes(fullPath, note)
	}
	if err := s.store.Save(snap.Records(), location); err != nil {
		return nil, err
	}
	s.setSnapshot(location, snap)

	return &ScanResult{
		Location: location,
		Summary:  fmt.Sprintf("Notes saved to %s.", filepath.Base(location)),
		Snapshot: snap,
	}, nil
}

// Inventory filters the tracked folder's snapshot and projects it to
// presentation rows.
func (s *Service) Inventory(ctx context.Context, folder string, criteria inventory.Criteria) ([]Row, error) {
	location, err := s.resolveLocation(folder)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(location)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := s.currentSnapshot(location)
	if err != nil {
		return nil, err
	}
	records := inventory.Filter(snap, criteria)
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			Action:       actionOpen,
			FileName:     r.FileName,
			Status:       string(r.Status),
			LastModified: r.LastModified,
			Topics:       r.Topics,
			ContentHint:  r.ContentHint,
			ManualNotes:  r.ManualNotes,
			FullPath:     r.FullPath,
		}
	}
	return rows, nil
}

// currentSnapshot returns the cached snapshot for location, loading the
// persisted table (after opportunistic recovery) when none is cached.
// Callers must hold the location lock.
func (s *Service) currentSnapshot(location string) (*models.Snapshot, error) {
	s.mu.Lock()
	snap, ok := s.snapshots[location]
	s.mu.Unlock()
	if ok {
		return snap, nil
	}
	s.store.Recover(location)
	snap, err := s.store.Load(location)
	if err != nil {
		s.logger.Warn("load: previous inventory unusable",
			slog.String("location", location),
			slog.String("error", err.Error()))
	}
	s.setSnapshot(location, snap)
	return snap, nil
}

func (s *Service) setSnapshot(location string, snap *models.Snapshot) {
	s.mu.Lock()
	s.snapshots[location] = snap
	s.mu.Unlock()
}

// resolveLocation validates folder and returns the absolute path of its
// inventory workbook.
func (s *Service) resolveLocation(folder string) (string, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("tracker: resolve %s: %w", folder, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("tracker: %s: %w", folder, apperr.ErrFolderNotFound)
	}
	return filepath.Join(abs, s.opts.InventoryFilename), nil
}

// lock acquires the per-location guard, creating it on first use.
func (s *Service) lock(location string) (unlock func()) {
	s.mu.Lock()
	m, ok := s.locks[location]
	if !ok {
		m = &sync.Mutex{}
		s.locks[location] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func summarize(c models.Counts) string {
	return fmt.Sprintf("Scan complete. Found %d files. (%d new, %d updated, %d removed-kept-with-notes).",
		c.Files, c.Added, c.Updated, c.RemovedWithNotes)
}

// IsNotFound reports whether err is the folder-not-found condition,
// for collaborators mapping errors to their own status codes.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrFolderNotFound)
}
