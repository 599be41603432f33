package api

import (
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/tracker"
)

// ScanRequest is the request body for triggering a scan.
type ScanRequest struct {
	Folder string `json:"folder"`
}

// ScanResponse reports the outcome of a scan-and-reconcile pass.
type ScanResponse struct {
	Summary  string        `json:"summary"`
	Location string        `json:"location"`
	Counts   models.Counts `json:"counts"`
	Warnings []string      `json:"warnings,omitempty"`
	Total    int           `json:"total"`
}

// SaveNotesRequest carries per-row note edits keyed by full path.
type SaveNotesRequest struct {
	Folder string            `json:"folder"`
	Notes  map[string]string `json:"notes"`
}

// SaveNotesResponse confirms a notes save.
type SaveNotesResponse struct {
	Summary string `json:"summary"`
}

// InventoryResponse wraps a filtered projection of the inventory.
type InventoryResponse struct {
	Rows  []tracker.Row `json:"rows"`
	Total int           `json:"total"`
}
