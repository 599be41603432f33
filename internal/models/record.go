// Package models defines the domain types for Othala.
package models

import "strings"

// Status classifies a file record relative to the previous snapshot.
// It is derived on every reconciliation pass, never treated as history.
type Status string

const (
	// StatusActive marks a file present and unchanged since the last scan.
	StatusActive Status = "Active"
	// StatusUpdated marks a file whose size or modification time changed.
	StatusUpdated Status = "Updated"
	// StatusAdded marks a file not present in the previous snapshot.
	StatusAdded Status = "Added"
	// StatusRemoved marks a tombstone for a file no longer on disk,
	// retained only because it carries a manual note.
	StatusRemoved Status = "Removed"
)

// ParseStatus maps a stored status string to a Status. It accepts the
// legacy "Removed (Not Found)" spelling written by older inventories.
func ParseStatus(s string) (Status, bool) {
	switch v := strings.TrimSpace(s); v {
	case string(StatusActive), string(StatusUpdated), string(StatusAdded), string(StatusRemoved):
		return Status(v), true
	}
	if strings.HasPrefix(strings.TrimSpace(s), string(StatusRemoved)) {
		return StatusRemoved, true
	}
	return StatusActive, false
}

// NoTopics is the sentinel used when no topic rule matched or the file
// format is not topic-classified.
const NoTopics = "N/A"

// FileRecord is one row of the inventory: a filesystem entry or a
// retained tombstone. FullPath is the primary key within a snapshot.
type FileRecord struct {
	FolderPath   string `json:"folder_path"`
	FileName     string `json:"file_name"`
	Extension    string `json:"extension"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified string `json:"last_modified"` // ISO-8601 (RFC 3339)
	FullPath     string `json:"full_path"`
	ContentHint  string `json:"content_hint"`
	Topics       string `json:"topics"` // comma-joined names or NoTopics
	Status       Status `json:"status"`
	ManualNotes  string `json:"manual_notes"`
}

// Counts summarizes the outcome of one reconciliation pass.
type Counts struct {
	Files            int `json:"files"`
	Added            int `json:"added"`
	Updated          int `json:"updated"`
	RemovedWithNotes int `json:"removed_with_notes"`
}

// Snapshot is an ordered collection of FileRecords keyed by FullPath,
// representing one point-in-time view of a tracked folder.
type Snapshot struct {
	records []FileRecord
	index   map[string]int
}

// NewSnapshot builds a snapshot from records in order. When the same
// FullPath appears more than once the last record wins, keeping the
// position of the first occurrence.
func NewSnapshot(records []FileRecord) *Snapshot {
	s := &Snapshot{
		records: make([]FileRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		s.Put(r)
	}
	return s
}

// Put inserts or replaces the record keyed by its FullPath.
func (s *Snapshot) Put(r FileRecord) {
	if i, ok := s.index[r.FullPath]; ok {
		s.records[i] = r
		return
	}
	s.index[r.FullPath] = len(s.records)
	s.records = append(s.records, r)
}

// Get returns the record for fullPath, if present.
func (s *Snapshot) Get(fullPath string) (FileRecord, bool) {
	i, ok := s.index[fullPath]
	if !ok {
		return FileRecord{}, false
	}
	return s.records[i], true
}

// SetNotes replaces the manual notes of the record keyed by fullPath.
// Returns false when no such record exists.
func (s *Snapshot) SetNotes(fullPath, notes string) bool {
	i, ok := s.index[fullPath]
	if !ok {
		return false
	}
	s.records[i].ManualNotes = notes
	return true
}

// Records returns the records in snapshot order. The slice is shared;
// callers must not append to it.
func (s *Snapshot) Records() []FileRecord {
	return s.records
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}
