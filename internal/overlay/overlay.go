package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/models"
	"github.com/household-archive/boxcat/internal/storage"
)

// BlobName is the single key the overlay occupies in its store.
const BlobName = "catalog_edits.json"

// ErrEmptyValue is returned when an edit trims to the empty string. Such
// edits are dropped: the overlay cannot represent "edited to empty", so a
// cleared field would be indistinguishable from a never-edited one.
var ErrEmptyValue = errors.New("empty edit value")

// Manager owns the edit overlay's persistence. The overlay itself is passed
// in and out of every operation, keeping the merge logic storage-free.
type Manager struct {
	store storage.BlobStore
}

func NewManager(store storage.BlobStore) *Manager {
	return &Manager{store: store}
}

// Load returns the persisted overlay, or an empty one when the blob is
// absent, unreadable, or fails to parse. It never fails.
func (m *Manager) Load() *models.EditOverlay {
	data, ok, err := m.store.Get(BlobName)
	if err != nil {
		slog.Warn("overlay read failed, starting empty", "err", err)
		return &models.EditOverlay{Edited: []models.EditEntry{}}
	}
	if !ok {
		return &models.EditOverlay{Edited: []models.EditEntry{}}
	}

	var overlay models.EditOverlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		slog.Warn("overlay blob corrupt, starting empty", "err", err)
		return &models.EditOverlay{Edited: []models.EditEntry{}}
	}
	if overlay.Edited == nil {
		overlay.Edited = []models.EditEntry{}
	}
	return &overlay
}

// RecordEdit merges one field edit into the item's overlay entry
// (last-write-wins per field), stamps the overlay, and persists it before
// returning. A persist failure is a warning, not an error: the in-memory
// edit still applies for the current session.
func (m *Manager) RecordEdit(overlay *models.EditOverlay, itemID, field, value string) error {
	if strings.TrimSpace(itemID) == "" || strings.TrimSpace(field) == "" {
		return fmt.Errorf("edit needs an item id and a field name")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode edit value: %w", err)
	}

	entry := findEntry(overlay, itemID)
	if entry == nil {
		overlay.Edited = append(overlay.Edited, models.EditEntry{
			ID:  itemID,
			Set: map[string]json.RawMessage{},
		})
		entry = &overlay.Edited[len(overlay.Edited)-1]
	}
	if entry.Set == nil {
		entry.Set = map[string]json.RawMessage{}
	}
	entry.Set[field] = raw
	overlay.Timestamp = time.Now().Format(time.RFC3339)

	if err := m.persist(overlay); err != nil {
		slog.Warn("overlay persist failed, edit kept in memory", "id", itemID, "field", field, "err", err)
	}
	return nil
}

func (m *Manager) persist(overlay *models.EditOverlay) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return m.store.Put(BlobName, data)
}

func findEntry(overlay *models.EditOverlay, itemID string) *models.EditEntry {
	for i := range overlay.Edited {
		if overlay.Edited[i].ID == itemID {
			return &overlay.Edited[i]
		}
	}
	return nil
}

// ApplyTo merges the overlay onto the reconciled collection, after all
// deltas. Matching items get the entry's fields and an Edited mark; entries
// for ids no longer in the collection are silently ignored — the item may
// have been removed by a later delta.
func ApplyTo(c *catalog.Collection, overlay *models.EditOverlay) int {
	applied := 0
	for _, entry := range overlay.Edited {
		item, ok := c.Get(entry.ID)
		if !ok {
			continue
		}
		touched := false
		for field, raw := range entry.Set {
			if err := item.SetField(field, raw); err != nil {
				slog.Warn("skip: bad overlay field", "id", entry.ID, "field", field, "err", err)
				continue
			}
			touched = true
		}
		if touched {
			item.Edited = true
			applied++
		}
	}
	return applied
}

// Export wraps the overlay as a portable edit document, the shape the
// ingestion pipeline re-consumes as a delta's updated source.
func Export(overlay *models.EditOverlay, catalogVersion, editor string) *models.PortableEdits {
	return &models.PortableEdits{
		EditOverlay:    *overlay,
		CatalogVersion: catalogVersion,
		ExportDate:     time.Now().Format(time.RFC3339),
		Editor:         editor,
	}
}

// ExportFilename is the conventional name for a portable edit document.
func ExportFilename(editor string, now time.Time) string {
	label := strings.ToLower(strings.TrimSpace(editor))
	label = strings.ReplaceAll(label, " ", "-")
	if label == "" {
		label = "local"
	}
	return fmt.Sprintf("%s_edits_%s.json", label, now.Format("2006-01-02"))
}
