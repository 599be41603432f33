// Package inventory merges fresh scans against persisted snapshots and
// projects the result for presentation.
package inventory

import (
	"github.com/starford/othala/internal/models"
)

// Reconcile merges the current scan against the previously persisted
// snapshot. Manual notes are copied forward for every surviving record;
// a record whose size or modification time changed becomes Updated,
// otherwise Active. Files present before but absent now are retained as
// Removed tombstones only when they carry a non-empty note; otherwise
// they are dropped.
//
// Output order is scan order followed by tombstones in previous-snapshot
// order. previous may be nil on a first run.
func Reconcile(current []models.FileRecord, previous *models.Snapshot) (*models.Snapshot, models.Counts) {
	merged := models.NewSnapshot(nil)
	var counts models.Counts

	unmatched := make(map[string]struct{})
	if previous != nil {
		for _, r := range previous.Records() {
			unmatched[r.FullPath] = struct{}{}
		}
	}

	for _, rec := range current {
		counts.Files++
		if previous != nil {
			if old, ok := previous.Get(rec.FullPath); ok {
				rec.ManualNotes = old.ManualNotes
				if old.SizeBytes != rec.SizeBytes || old.LastModified != rec.LastModified {
					rec.Status = models.StatusUpdated
					counts.Updated++
				} else {
					rec.Status = models.StatusActive
				}
				delete(unmatched, rec.FullPath)
				merged.Put(rec)
				continue
			}
		}
		rec.Status = models.StatusAdded
		rec.ManualNotes = ""
		counts.Added++
		merged.Put(rec)
	}

	if previous != nil {
		for _, old := range previous.Records() {
			if _, gone := unmatched[old.FullPath]; !gone {
				continue
			}
			if old.ManualNotes == "" {
				continue
			}
			tomb := old
			tomb.Status = models.StatusRemoved
			merged.Put(tomb)
			counts.RemovedWithNotes++
		}
	}

	return merged, counts
}
