package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/household-archive/boxcat/internal/models"
	"github.com/household-archive/boxcat/internal/overlay"
)

// WritePortableEdits writes a portable edit document into dir under its
// conventional filename and returns the written path. The document is
// re-ingested by the photo processing tool as a delta's updated source.
func WritePortableEdits(dir string, doc *models.PortableEdits) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal edit document: %w", err)
	}

	path := filepath.Join(dir, overlay.ExportFilename(doc.Editor, time.Now()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write edit document: %w", err)
	}
	return path, nil
}
