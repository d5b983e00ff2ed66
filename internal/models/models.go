package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item represents one cataloged object from the household archive.
// Field names mirror the JSON produced by the photo ingestion pipeline.
type Item struct {
	ID          string            `json:"id"`
	BoxID       string            `json:"box_id"`
	BoxFriendly string            `json:"box_friendly,omitempty"`
	Category    string            `json:"category,omitempty"`
	ItemName    string            `json:"item_name"`
	Quantity    int               `json:"quantity"`
	Description string            `json:"description,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Captions    []string          `json:"captions,omitempty"`
	People      []string          `json:"people,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	DateFound   string            `json:"date_found,omitempty"`
	ImageFiles  []ImageFile       `json:"image_files,omitempty"`
	OCR         *OCRInfo          `json:"ocr,omitempty"`
	Pub         *Publication      `json:"pub,omitempty"`
	Hashes      *Hashes           `json:"hashes,omitempty"`
	BoxHistory  []BoxHistoryEntry `json:"box_history,omitempty"`

	// Edited marks an item whose fields were overridden by the local edit
	// overlay. Computed during reconciliation, never read from input files.
	Edited bool `json:"_edited,omitempty"`
}

// ImageFile is a full/thumbnail filename pair produced by the ingestion tool.
type ImageFile struct {
	Full  string `json:"full"`
	Thumb string `json:"thumb"`
}

// OCRInfo carries the raw text the extraction pipeline read off the photo.
type OCRInfo struct {
	BoxIDDetected string `json:"box_id_detected,omitempty"`
	RawText       string `json:"raw_text,omitempty"`
}

// Publication describes a newspaper or magazine item.
type Publication struct {
	PublicationName string   `json:"publication_name,omitempty"`
	DateOfIssue     string   `json:"date_of_issue,omitempty"`
	PageNumber      string   `json:"page_number,omitempty"`
	NamesMentioned  []string `json:"names_mentioned,omitempty"`
}

// Hashes holds image digests assigned upstream; carried opaquely.
type Hashes struct {
	SHA1  string `json:"sha1,omitempty"`
	PHash string `json:"phash,omitempty"`
}

// BoxHistoryEntry records one stay in a box. To == nil marks the current
// location.
type BoxHistoryEntry struct {
	BoxID string  `json:"box_id"`
	From  string  `json:"from,omitempty"`
	To    *string `json:"to"`
}

// Base is the immutable starting snapshot of the catalog.
type Base struct {
	CatalogVersion string `json:"catalog_version"`
	Source         string `json:"source,omitempty"`
	Items          []Item `json:"items"`
}

// Manifest lists delta filenames in apply order. The listed order is
// authoritative even when it disagrees with filename order.
type Manifest struct {
	LastUpdated string   `json:"last_updated"`
	Deltas      []string `json:"deltas"`
}

// Delta is one incremental patch file produced by an ingestion run.
type Delta struct {
	DeltaVersion string        `json:"delta_version,omitempty"`
	Added        []Item        `json:"added,omitempty"`
	Updated      []UpdateEntry `json:"updated,omitempty"`
	Removed      []string      `json:"removed,omitempty"`
	Changelog    string        `json:"changelog,omitempty"`
}

// UpdateEntry patches one existing item. Set merges field by field;
// BoxHistoryAppend always appends to box_history, never replaces it.
type UpdateEntry struct {
	ID               string                     `json:"id"`
	Set              map[string]json.RawMessage `json:"set,omitempty"`
	BoxHistoryAppend []BoxHistoryEntry          `json:"box_history_append,omitempty"`
}

// EditEntry is one item's accumulated local edits, at most one per item id.
type EditEntry struct {
	ID  string                     `json:"id"`
	Set map[string]json.RawMessage `json:"set"`
}

// EditOverlay is the locally persisted edit log, applied after all deltas.
type EditOverlay struct {
	Edited    []EditEntry `json:"edited"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// PortableEdits is the export shape handed back to the ingestion pipeline,
// where it is consumed as a delta's updated source.
type PortableEdits struct {
	EditOverlay
	CatalogVersion string `json:"catalog_version"`
	ExportDate     string `json:"export_date"`
	Editor         string `json:"editor"`
}

// Normalize fills producer defaults on a freshly decoded item. The edited
// mark is cleared: it belongs to the overlay step, never to input files.
func (it *Item) Normalize() {
	it.Edited = false
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.BoxFriendly == "" && it.BoxID != "" {
		it.BoxFriendly = FriendlyBoxName(it.BoxID)
	}
}

// Validate reports whether the item can join a collection.
func (it *Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("item has no id")
	}
	return nil
}

// CurrentBox returns the open box_history entry, if any.
func (it *Item) CurrentBox() (BoxHistoryEntry, bool) {
	for i := len(it.BoxHistory) - 1; i >= 0; i-- {
		if it.BoxHistory[i].To == nil {
			return it.BoxHistory[i], true
		}
	}
	return BoxHistoryEntry{}, false
}

// SearchText returns the item's lower-cased search corpus, built once per
// item rather than per query.
func (it *Item) SearchText() string {
	parts := []string{
		it.ItemName,
		it.Description,
		it.Notes,
		it.Category,
		it.BoxID,
		it.BoxFriendly,
	}
	parts = append(parts, it.Captions...)
	parts = append(parts, it.People...)
	parts = append(parts, it.Tags...)
	if it.Pub != nil {
		parts = append(parts, it.Pub.PublicationName)
		parts = append(parts, it.Pub.NamesMentioned...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// SetField assigns one field from a patch set. Field names are the JSON
// names used by delta and overlay documents. id and box_history are not
// assignable; box_history only grows through box_history_append.
func (it *Item) SetField(name string, raw json.RawMessage) error {
	switch name {
	case "box_id":
		return decodeInto(name, raw, &it.BoxID)
	case "box_friendly":
		return decodeInto(name, raw, &it.BoxFriendly)
	case "category":
		return decodeInto(name, raw, &it.Category)
	case "item_name":
		return decodeInto(name, raw, &it.ItemName)
	case "description":
		return decodeInto(name, raw, &it.Description)
	case "notes":
		return decodeInto(name, raw, &it.Notes)
	case "date_found":
		return decodeInto(name, raw, &it.DateFound)
	case "quantity":
		return decodeQuantity(raw, &it.Quantity)
	case "captions":
		return decodeInto(name, raw, &it.Captions)
	case "people":
		return decodeInto(name, raw, &it.People)
	case "tags":
		return decodeInto(name, raw, &it.Tags)
	case "image_files":
		return decodeInto(name, raw, &it.ImageFiles)
	case "ocr":
		return decodeInto(name, raw, &it.OCR)
	case "pub":
		return decodeInto(name, raw, &it.Pub)
	case "hashes":
		return decodeInto(name, raw, &it.Hashes)
	default:
		return fmt.Errorf("field %q is not assignable", name)
	}
}

func decodeInto(name string, raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bad value for field %q: %w", name, err)
	}
	return nil
}

// decodeQuantity accepts a JSON number or a numeric string; form inputs
// round-trip quantities as strings.
func decodeQuantity(raw json.RawMessage, dst *int) error {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 1 {
			return fmt.Errorf("quantity must be positive")
		}
		*dst = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("bad value for field %q", "quantity")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("bad value for field %q", "quantity")
	}
	*dst = n
	return nil
}
