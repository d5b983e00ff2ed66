package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/household-archive/boxcat/internal/overlay"
)

type editRequest struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// HandleEdits records one field edit in the overlay and applies it to the
// live item so the next GET already reflects it.
func (h *Handler) HandleEdits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.manager.RecordEdit(h.overlay, req.ID, req.Field, req.Value); err != nil {
		if errors.Is(err, overlay.ErrEmptyValue) {
			h.writeError(w, "Empty edit values are not recorded", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid edit: "+err.Error(), http.StatusBadRequest)
		return
	}

	item, ok := h.collection.Get(req.ID)
	if ok {
		raw, _ := json.Marshal(req.Value)
		if err := item.SetField(req.Field, raw); err != nil {
			h.writeError(w, "Edit recorded but not applicable: "+err.Error(), http.StatusBadRequest)
			return
		}
		item.Edited = true
	}

	h.writeJSON(w, map[string]any{
		"recorded": true,
		"applied":  ok,
	})
}

// HandleExportEdits serves the overlay as a portable edit document, ready
// to feed back into the next ingestion batch.
func (h *Handler) HandleExportEdits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	doc := overlay.Export(h.overlay, h.lastUpdated, h.editor)
	filename := overlay.ExportFilename(h.editor, time.Now())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.writeJSON(w, doc)
}
