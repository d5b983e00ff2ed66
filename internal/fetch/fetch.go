package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/household-archive/boxcat/internal/models"
)

// Data layout shared by both sources, matching the ingestion tool's output:
//
//	<root>/items.base.json      base snapshot
//	<root>/updates_index.json   manifest
//	<root>/updates/<name>       delta files
const (
	BaseFile     = "items.base.json"
	ManifestFile = "updates_index.json"
	UpdatesDir   = "updates"
)

var ErrNotFound = errors.New("not found")

// DirSource reads catalog files from a local data directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Base(ctx context.Context) (*models.Base, error) {
	var base models.Base
	if err := s.readJSON(BaseFile, &base); err != nil {
		return nil, err
	}
	return &base, nil
}

func (s *DirSource) Manifest(ctx context.Context) (*models.Manifest, error) {
	var manifest models.Manifest
	if err := s.readJSON(ManifestFile, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (s *DirSource) Delta(ctx context.Context, name string) (*models.Delta, error) {
	var delta models.Delta
	if err := s.readJSON(filepath.Join(UpdatesDir, filepath.Base(name)), &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}

func (s *DirSource) readJSON(name string, dst any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// HTTPSource fetches catalog files over plain HTTP GET of static JSON
// resources.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) Base(ctx context.Context) (*models.Base, error) {
	var base models.Base
	if err := s.getJSON(ctx, BaseFile, &base); err != nil {
		return nil, err
	}
	return &base, nil
}

func (s *HTTPSource) Manifest(ctx context.Context) (*models.Manifest, error) {
	var manifest models.Manifest
	if err := s.getJSON(ctx, ManifestFile, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (s *HTTPSource) Delta(ctx context.Context, name string) (*models.Delta, error) {
	var delta models.Delta
	if err := s.getJSON(ctx, UpdatesDir+"/"+name, &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, dst any) error {
	url := s.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", url, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
