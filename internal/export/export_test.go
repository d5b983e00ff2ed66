package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/models"
	"gopkg.in/yaml.v3"
)

func TestSaveToYAML(t *testing.T) {
	result := &catalog.Result{
		Collection:  catalog.NewCollection(),
		LastUpdated: "2025-02-01 10:00:00",
		Stats:       catalog.ApplyStats{Added: 3, Skipped: 1},
		Warnings:    []catalog.Warning{{Delta: "bad.json", Reason: "not found"}},
	}

	dir := t.TempDir()
	path, err := SaveToYAML(dir, NewReport(result, 2))
	if err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Expected report in %s, got %s", dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		t.Fatalf("Report is not valid YAML: %v", err)
	}
	if report.LastUpdated != "2025-02-01 10:00:00" || report.Stats.Added != 3 {
		t.Errorf("Unexpected report contents: %+v", report)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Delta != "bad.json" {
		t.Errorf("Expected warnings carried, got %+v", report.Warnings)
	}
	if report.EditsApplied != 2 {
		t.Errorf("Expected edits applied 2, got %d", report.EditsApplied)
	}
}

func TestWritePortableEdits(t *testing.T) {
	doc := &models.PortableEdits{
		EditOverlay: models.EditOverlay{
			Edited: []models.EditEntry{
				{ID: "it_1", Set: map[string]json.RawMessage{"notes": json.RawMessage(`"fragile"`)}},
			},
			Timestamp: "2025-02-14T09:00:00Z",
		},
		CatalogVersion: "2025.02.02.1200",
		Editor:         "stephen",
	}

	dir := t.TempDir()
	path, err := WritePortableEdits(dir, doc)
	if err != nil {
		t.Fatalf("WritePortableEdits failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "stephen_edits_") {
		t.Errorf("Expected conventional filename, got %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read document: %v", err)
	}
	var got models.PortableEdits
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Document is not valid JSON: %v", err)
	}
	if got.Editor != "stephen" || len(got.Edited) != 1 {
		t.Errorf("Unexpected document: %+v", got)
	}
}

func TestFlattenItem(t *testing.T) {
	item := &models.Item{
		ID:       "it_1",
		ItemName: "Family letter",
		Quantity: 2,
		People:   []string{"Margaret", "Harold"},
		Tags:     []string{"fragile"},
		Pub:      &models.Publication{PublicationName: "The Gazette"},
		BoxHistory: []models.BoxHistoryEntry{
			{BoxID: "DO3M", From: "2025-01-01", To: nil},
		},
		Edited: true,
	}

	row := flattenItem(item)
	if row.People != "Margaret; Harold" {
		t.Errorf("Expected joined people, got %s", row.People)
	}
	if row.Publication != "The Gazette" {
		t.Errorf("Expected publication name, got %s", row.Publication)
	}
	if row.BoxMoves != 1 || row.Quantity != 2 || !row.Edited {
		t.Errorf("Unexpected row: %+v", row)
	}
}

func TestWriteSnapshot(t *testing.T) {
	items := []*models.Item{
		{ID: "it_1", ItemName: "Letter", Quantity: 1},
		{ID: "it_2", ItemName: "Teacup", Quantity: 1},
	}

	path := filepath.Join(t.TempDir(), "catalog.parquet")
	if err := WriteSnapshot(path, items); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Snapshot not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty snapshot")
	}
}
