package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/view"
	"gopkg.in/yaml.v3"
)

// Report summarizes one reconciliation pass for operators.
type Report struct {
	GeneratedAt  string             `yaml:"generatedat"`
	LastUpdated  string             `yaml:"lastupdated"`
	Items        int                `yaml:"items"`
	EditsApplied int                `yaml:"editsapplied"`
	Stats        catalog.ApplyStats `yaml:"stats"`
	Warnings     []catalog.Warning  `yaml:"warnings,omitempty"`
	Facets       view.Facets        `yaml:"facets"`
}

// NewReport builds a report from a reconciliation result.
func NewReport(result *catalog.Result, editsApplied int) Report {
	return Report{
		GeneratedAt:  time.Now().Format("2006-01-02_15-04-05"),
		LastUpdated:  result.LastUpdated,
		Items:        result.Collection.Len(),
		EditsApplied: editsApplied,
		Stats:        result.Stats,
		Warnings:     result.Warnings,
		Facets:       view.ProjectFacets(result.Collection),
	}
}

// SaveToYAML writes the report into the reports directory and returns the
// written path.
func SaveToYAML(dir string, report Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("reconcile_%s.yaml", report.GeneratedAt))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
