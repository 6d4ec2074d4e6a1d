package http

import (
	"io"
	"net/http"

	"velokassa-backend/internal/service"
)

// SnapshotHandler exposes backup export and import over HTTP
type SnapshotHandler struct {
	snapshots service.SnapshotService
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshots service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Export returns the full ledger state as a JSON document
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.snapshots.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="velokassa-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import replaces the full ledger state with an uploaded document.
// Documents without bikes and rentals sequences are rejected and the
// running state is left untouched.
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}
	if err := h.snapshots.Import(r.Context(), data); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
