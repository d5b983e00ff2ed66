package catalog

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/household-archive/boxcat/internal/models"
)

// ApplyStats reports what one delta did to the collection. Skipped counts
// malformed or inapplicable sub-entries; they are absorbed, never raised.
type ApplyStats struct {
	Added   int `json:"added" yaml:"added"`
	Updated int `json:"updated" yaml:"updated"`
	Removed int `json:"removed" yaml:"removed"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

func (s *ApplyStats) add(other ApplyStats) {
	s.Added += other.Added
	s.Updated += other.Updated
	s.Removed += other.Removed
	s.Skipped += other.Skipped
}

// Apply applies one delta to the collection in place: added, then updated,
// then removed. The operation is total — a malformed sub-entry is skipped
// and counted, the rest of the delta still applies.
//
// Re-applying the same delta is safe: an added id already present in the
// collection is skipped, and removing an absent id is a no-op.
func Apply(c *Collection, d *models.Delta) ApplyStats {
	var stats ApplyStats

	for i := range d.Added {
		item := d.Added[i]
		if err := item.Validate(); err != nil {
			slog.Warn("skip: malformed added entry", "delta", d.DeltaVersion, "err", err)
			stats.Skipped++
			continue
		}
		if c.Has(item.ID) {
			slog.Warn("skip: duplicate id", "delta", d.DeltaVersion, "id", item.ID)
			stats.Skipped++
			continue
		}
		item.Normalize()
		c.Put(&item)
		stats.Added++
	}

	for _, entry := range d.Updated {
		if entry.ID == "" {
			slog.Warn("skip: update entry has no id", "delta", d.DeltaVersion)
			stats.Skipped++
			continue
		}
		target, ok := c.Get(entry.ID)
		if !ok {
			slog.Warn("skip: update targets unknown id", "delta", d.DeltaVersion, "id", entry.ID)
			stats.Skipped++
			continue
		}
		applied := applySet(target, entry.Set, &stats)
		if len(entry.BoxHistoryAppend) > 0 {
			// Always append, never replace. Closing a prior open entry is
			// the producer's job; two open entries are preserved as-is.
			target.BoxHistory = append(target.BoxHistory, entry.BoxHistoryAppend...)
			applied = true
		}
		if applied {
			stats.Updated++
		}
	}

	for _, id := range d.Removed {
		if id == "" {
			stats.Skipped++
			continue
		}
		if c.Has(id) {
			c.Delete(id)
			stats.Removed++
		}
	}

	return stats
}

// applySet merges a partial field map onto an item, field by field. Bad
// fields are skipped individually so one typo does not discard the entry.
func applySet(target *models.Item, set map[string]json.RawMessage, stats *ApplyStats) bool {
	applied := false
	for _, name := range sortedKeys(set) {
		if err := target.SetField(name, set[name]); err != nil {
			slog.Warn("skip: bad set field", "id", target.ID, "field", name, "err", err)
			stats.Skipped++
			continue
		}
		applied = true
	}
	return applied
}

func sortedKeys(set map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
