package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/household-archive/boxcat/internal/fetch"
	"github.com/household-archive/boxcat/internal/handlers"
	"github.com/household-archive/boxcat/internal/overlay"
	"github.com/household-archive/boxcat/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port       string
		dataDir    string
		baseURL    string
		overlayDir string
		editor     string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconciled catalog to the viewer UI",
		Long: `Reconciles the catalog (base snapshot, deltas in manifest order, local
edit overlay) and serves the result as a JSON API for the viewer UI.

Edits posted to the API are persisted to the overlay before the request
returns, so a crash between edits never loses a committed edit.`,
		Example: `  # Serve the catalog in ./data on the default port
  boxcat serve

  # Serve a remote catalog, re-reconciling when local edits land
  boxcat serve --base-url https://archive.example.org/catalog

  # Watch the data directory and re-reconcile on changes
  boxcat serve --data ./data --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := newSource(dataDir, baseURL)
			if err != nil {
				return err
			}

			manager := overlay.NewManager(storage.NewFileStore(overlayDir))
			handler := handlers.New(source, manager, editorLabel(editor))

			if err := handler.Reload(cmd.Context()); err != nil {
				return err
			}

			if watch {
				if dataDir == "" || baseURL != "" {
					return errors.New("--watch requires a local --data directory")
				}
				stop, err := watchDataDir(cmd.Context(), dataDir, handler)
				if err != nil {
					return err
				}
				defer stop()
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/items", handler.HandleItems)
			mux.HandleFunc("/api/items/", handler.HandleItemDetail)
			mux.HandleFunc("/api/edits", handler.HandleEdits)
			mux.HandleFunc("/api/export/edits", handler.HandleExportEdits)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Catalog available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&dataDir, "data", "", "Catalog data directory (default ./data)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Fetch catalog files from this URL instead of a local directory")
	cmd.Flags().StringVar(&overlayDir, "overlay", "overlay", "Directory holding the local edit overlay")
	cmd.Flags().StringVar(&editor, "editor", "", "Editor label for exported edits (default $CATALOG_EDITOR or \"local\")")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-reconcile when the data directory changes")

	return cmd
}

// watchDataDir re-runs reconciliation when the base, manifest, or a delta
// file changes. Events are debounced: ingestion runs touch several files in
// quick succession and one pass covers them all.
func watchDataDir(ctx context.Context, dataDir string, handler *handlers.Handler) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, err
	}
	// The updates dir may not exist yet on a fresh catalog.
	if err := watcher.Add(filepath.Join(dataDir, fetch.UpdatesDir)); err != nil {
		slog.Warn("updates directory not watched", "err", err)
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				slog.Debug("data change detected", "file", event.Name)
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					if err := handler.Reload(ctx); err != nil {
						slog.Error("re-reconciliation failed", "err", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("watch error", "err", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
