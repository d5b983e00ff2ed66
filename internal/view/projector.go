package view

import (
	"sort"
	"strings"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/models"
)

// Facets are the distinct filter vocabularies the UI offers, each sorted
// for stable presentation.
type Facets struct {
	Boxes      []string `json:"boxes" yaml:"boxes"`
	Categories []string `json:"categories" yaml:"categories"`
	People     []string `json:"people" yaml:"people"`
}

// Counts are pure read projections over the collection, recomputed on
// demand rather than kept as counters that could drift.
type Counts struct {
	Total    int `json:"total" yaml:"total"`
	Filtered int `json:"filtered" yaml:"filtered"`
	Edited   int `json:"edited" yaml:"edited"`
}

// Query is one filter request from the UI. Text matches the item search
// corpus case-insensitively; the facet fields match exactly.
type Query struct {
	Text     string
	Box      string
	Category string
	Person   string
}

func (q Query) isEmpty() bool {
	return q.Text == "" && q.Box == "" && q.Category == "" && q.Person == ""
}

// ProjectFacets derives the filter vocabularies from the final collection.
func ProjectFacets(c *catalog.Collection) Facets {
	boxes := map[string]bool{}
	categories := map[string]bool{}
	people := map[string]bool{}

	for _, item := range c.Items() {
		if item.BoxID != "" {
			boxes[item.BoxID] = true
		}
		if item.Category != "" {
			categories[item.Category] = true
		}
		for _, person := range item.People {
			if person != "" {
				people[person] = true
			}
		}
	}

	return Facets{
		Boxes:      sortedSet(boxes),
		Categories: sortedSet(categories),
		People:     sortedSet(people),
	}
}

// ProjectCounts computes aggregate counts for the given filtered subset.
func ProjectCounts(c *catalog.Collection, filtered []*models.Item) Counts {
	counts := Counts{
		Total:    c.Len(),
		Filtered: len(filtered),
	}
	for _, item := range c.Items() {
		if item.Edited {
			counts.Edited++
		}
	}
	return counts
}

// Filter returns the items matching the query, in collection order.
func Filter(c *catalog.Collection, q Query) []*models.Item {
	items := c.Items()
	if q.isEmpty() {
		return items
	}

	text := strings.ToLower(q.Text)
	matched := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if q.Box != "" && item.BoxID != q.Box {
			continue
		}
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		if q.Person != "" && !containsString(item.People, q.Person) {
			continue
		}
		if text != "" && !strings.Contains(item.SearchText(), text) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sortedSet(set map[string]bool) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
