package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/inventory"
	"github.com/starford/othala/internal/tracker"
)

// Handler holds API route handlers.
type Handler struct {
	svc *tracker.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

// Scan handles POST /api/scan: scans the folder, reconciles against the
// persisted inventory, and saves the merged result.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Folder == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("folder is required"))
		return
	}

	res, err := h.svc.ScanFolder(r.Context(), req.Folder)
	if err != nil {
		if errors.Is(err, apperr.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("folder not found: "+req.Folder))
			return
		}
		slog.Error("scan failed",
			slog.String("folder", req.Folder),
			slog.String("error", err.Error()))
		if errors.Is(err, apperr.ErrSaveVerification) {
			writeJSON(w, http.StatusInternalServerError, errorBody("inventory save failed; previous file left untouched"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, ScanResponse{
		Summary:  res.Summary,
		Location: res.Location,
		Counts:   res.Counts,
		Warnings: res.Warnings,
		Total:    res.Snapshot.Len(),
	})
}

// Inventory handles GET /api/inventory: projects the tracked folder's
// snapshot through the filter engine.
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	folder := q.Get("folder")
	if folder == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'folder' is required"))
		return
	}

	rows, err := h.svc.Inventory(r.Context(), folder, inventory.Criteria{
		Status: q.Get("status"),
		Topics: q.Get("topics"),
		Text:   q.Get("q"),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("folder not found: "+folder))
			return
		}
		slog.Error("inventory failed",
			slog.String("folder", folder),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, InventoryResponse{Rows: rows, Total: len(rows)})
}

// SaveNotes handles PUT /api/notes: applies note edits and persists.
func (h *Handler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req SaveNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Folder == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("folder is required"))
		return
	}
	if len(req.Notes) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("notes must not be empty"))
		return
	}

	res, err := h.svc.SaveNotes(r.Context(), req.Folder, req.Notes)
	if err != nil {
		if errors.Is(err, apperr.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("folder not found: "+req.Folder))
			return
		}
		slog.Error("save notes failed",
			slog.String("folder", req.Folder),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save notes"))
		return
	}

	writeJSON(w, http.StatusOK, SaveNotesResponse{Summary: res.Summary})
}
