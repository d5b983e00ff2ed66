package handlers

import (
	"net/http"
	"strings"

	"github.com/household-archive/boxcat/internal/models"
	"github.com/household-archive/boxcat/internal/view"
)

// ItemsResponse is the flat collection plus everything the UI derives its
// chrome from: facet vocabularies, counts, and the freshness label.
type ItemsResponse struct {
	Items       []*models.Item `json:"items"`
	Facets      view.Facets    `json:"facets"`
	Counts      view.Counts    `json:"counts"`
	LastUpdated string         `json:"last_updated"`
}

func (h *Handler) HandleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := view.Query{
		Text:     r.URL.Query().Get("q"),
		Box:      r.URL.Query().Get("box"),
		Category: r.URL.Query().Get("category"),
		Person:   r.URL.Query().Get("person"),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	filtered := view.Filter(h.collection, query)
	h.writeJSON(w, ItemsResponse{
		Items:       filtered,
		Facets:      view.ProjectFacets(h.collection),
		Counts:      view.ProjectCounts(h.collection, filtered),
		LastUpdated: h.lastUpdated,
	})
}

func (h *Handler) HandleItemDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	itemID := strings.TrimPrefix(r.URL.Path, "/api/items/")

	h.mu.RLock()
	defer h.mu.RUnlock()

	item, ok := h.collection.Get(itemID)
	if !ok {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, item)
}
