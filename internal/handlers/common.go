package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/models"
	"github.com/household-archive/boxcat/internal/overlay"
)

// Handler serves the reconciled catalog to the viewer UI. The served
// snapshot is swapped atomically on Reload; edits go through the overlay
// manager and land on the live collection immediately.
type Handler struct {
	source  catalog.Source
	manager *overlay.Manager
	editor  string

	mu          sync.RWMutex
	collection  *catalog.Collection
	overlay     *models.EditOverlay
	lastUpdated string
	warnings    []catalog.Warning
}

func New(source catalog.Source, manager *overlay.Manager, editor string) *Handler {
	return &Handler{
		source:     source,
		manager:    manager,
		editor:     editor,
		collection: catalog.NewCollection(),
		overlay:    &models.EditOverlay{Edited: []models.EditEntry{}},
	}
}

// Reload runs a full reconciliation pass (base, deltas, overlay) and swaps
// the served snapshot.
func (h *Handler) Reload(ctx context.Context) error {
	result, err := catalog.Reconcile(ctx, h.source)
	if err != nil {
		return err
	}

	ov := h.manager.Load()
	applied := overlay.ApplyTo(result.Collection, ov)

	h.mu.Lock()
	h.collection = result.Collection
	h.overlay = ov
	h.lastUpdated = result.LastUpdated
	h.warnings = result.Warnings
	h.mu.Unlock()

	slog.Info("catalog reconciled",
		"items", result.Collection.Len(),
		"last_updated", result.LastUpdated,
		"edits_applied", applied,
		"deltas_skipped", len(result.Warnings))
	return nil
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
