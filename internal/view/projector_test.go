package view

import (
	"reflect"
	"testing"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/models"
)

func testCollection() *catalog.Collection {
	c := catalog.NewCollection()
	items := []models.Item{
		{ID: "it_1", ItemName: "Family letter", BoxID: "DO3M", Category: "Documents", People: []string{"Margaret", "Harold"}, Edited: true},
		{ID: "it_2", ItemName: "Teacup", BoxID: "KT1L", Category: "Kitchen"},
		{ID: "it_3", ItemName: "Old map", BoxID: "DO3M", Category: "Documents", People: []string{"Harold"}},
		{ID: "it_4", ItemName: "Unboxed thing"},
	}
	for i := range items {
		c.Put(&items[i])
	}
	return c
}

func TestProjectFacets(t *testing.T) {
	facets := ProjectFacets(testCollection())

	if !reflect.DeepEqual(facets.Boxes, []string{"DO3M", "KT1L"}) {
		t.Errorf("Expected sorted distinct boxes, got %v", facets.Boxes)
	}
	if !reflect.DeepEqual(facets.Categories, []string{"Documents", "Kitchen"}) {
		t.Errorf("Expected sorted distinct categories, got %v", facets.Categories)
	}
	if !reflect.DeepEqual(facets.People, []string{"Harold", "Margaret"}) {
		t.Errorf("Expected sorted distinct people, got %v", facets.People)
	}
}

func TestFilter(t *testing.T) {
	c := testCollection()

	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{"empty query returns everything", Query{}, []string{"it_1", "it_2", "it_3", "it_4"}},
		{"box filter", Query{Box: "DO3M"}, []string{"it_1", "it_3"}},
		{"category filter", Query{Category: "Kitchen"}, []string{"it_2"}},
		{"person filter", Query{Person: "Margaret"}, []string{"it_1"}},
		{"text is case-insensitive", Query{Text: "TEACUP"}, []string{"it_2"}},
		{"text matches people too", Query{Text: "harold"}, []string{"it_1", "it_3"}},
		{"filters combine", Query{Box: "DO3M", Person: "Harold", Text: "map"}, []string{"it_3"}},
		{"no match", Query{Text: "zeppelin"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := Filter(c, tt.query)
			ids := make([]string, 0, len(matched))
			for _, item := range matched {
				ids = append(ids, item.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Expected %v, got %v", tt.wantIDs, ids)
			}
		})
	}
}

func TestProjectCounts(t *testing.T) {
	c := testCollection()
	filtered := Filter(c, Query{Box: "DO3M"})

	counts := ProjectCounts(c, filtered)
	if counts.Total != 4 {
		t.Errorf("Expected total 4, got %d", counts.Total)
	}
	if counts.Filtered != 2 {
		t.Errorf("Expected filtered 2, got %d", counts.Filtered)
	}
	if counts.Edited != 1 {
		t.Errorf("Expected edited 1, got %d", counts.Edited)
	}
}
