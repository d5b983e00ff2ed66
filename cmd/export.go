package cmd

import (
	"log/slog"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/export"
	"github.com/household-archive/boxcat/internal/overlay"
	"github.com/household-archive/boxcat/internal/storage"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export edits or a flat catalog snapshot",
	}

	cmd.AddCommand(newExportEditsCmd())
	cmd.AddCommand(newExportSnapshotCmd())

	return cmd
}

func newExportEditsCmd() *cobra.Command {
	var (
		dataDir    string
		baseURL    string
		overlayDir string
		outDir     string
		editor     string
	)

	cmd := &cobra.Command{
		Use:   "edits",
		Short: "Write the local edit overlay as a portable edit document",
		Long: `Exports the local edit overlay as a portable JSON document, stamped with
the catalog version and editor label. The ingestion pipeline consumes the
document as a delta's updated source, folding the edits into the shared
catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := newSource(dataDir, baseURL)
			if err != nil {
				return err
			}

			// The export is stamped with the catalog version the edits were
			// made against, so the ingestion side can spot stale documents.
			base, err := source.Base(cmd.Context())
			if err != nil {
				return err
			}

			manager := overlay.NewManager(storage.NewFileStore(overlayDir))
			doc := overlay.Export(manager.Load(), base.CatalogVersion, editorLabel(editor))

			path, err := export.WritePortableEdits(outDir, doc)
			if err != nil {
				return err
			}
			slog.Info("edits exported", "path", path, "entries", len(doc.Edited))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Catalog data directory (default ./data)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Fetch catalog files from this URL instead of a local directory")
	cmd.Flags().StringVar(&overlayDir, "overlay", "overlay", "Directory holding the local edit overlay")
	cmd.Flags().StringVar(&outDir, "out", "exports", "Directory to write the edit document into")
	cmd.Flags().StringVar(&editor, "editor", "", "Editor label for the document (default $CATALOG_EDITOR or \"local\")")

	return cmd
}

func newExportSnapshotCmd() *cobra.Command {
	var (
		dataDir    string
		baseURL    string
		overlayDir string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the reconciled catalog as a flat Parquet table",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := newSource(dataDir, baseURL)
			if err != nil {
				return err
			}

			result, err := catalog.Reconcile(cmd.Context(), source)
			if err != nil {
				return err
			}

			manager := overlay.NewManager(storage.NewFileStore(overlayDir))
			overlay.ApplyTo(result.Collection, manager.Load())

			if err := export.WriteSnapshot(outPath, result.Collection.Items()); err != nil {
				return err
			}
			slog.Info("snapshot written", "path", outPath, "items", result.Collection.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Catalog data directory (default ./data)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Fetch catalog files from this URL instead of a local directory")
	cmd.Flags().StringVar(&overlayDir, "overlay", "overlay", "Directory holding the local edit overlay")
	cmd.Flags().StringVar(&outPath, "out", "catalog.parquet", "Output Parquet file")

	return cmd
}
