package cmd

import (
	"log/slog"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/export"
	"github.com/household-archive/boxcat/internal/overlay"
	"github.com/household-archive/boxcat/internal/storage"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var (
		dataDir    string
		baseURL    string
		overlayDir string
		reportDir  string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass and report the outcome",
		Long: `Rebuilds the catalog from its inputs — base snapshot, deltas in manifest
order, local edit overlay — and prints what happened: items loaded, entries
applied and skipped, deltas that could not be fetched or parsed.

Reconciliation is idempotent; running it again against unchanged inputs
yields the same collection.`,
		Example: `  # Reconcile the catalog in ./data
  boxcat reconcile --data ./data

  # Write a YAML report alongside the summary
  boxcat reconcile --data ./data --report reports`,
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
			applied := overlay.ApplyTo(result.Collection, manager.Load())

			slog.Info("reconciliation complete",
				"items", result.Collection.Len(),
				"last_updated", result.LastUpdated,
				"added", result.Stats.Added,
				"updated", result.Stats.Updated,
				"removed", result.Stats.Removed,
				"skipped", result.Stats.Skipped,
				"edits_applied", applied,
				"deltas_skipped", len(result.Warnings))
			for _, warning := range result.Warnings {
				slog.Warn("delta skipped", "delta", warning.Delta, "reason", warning.Reason)
			}

			if reportDir != "" {
				path, err := export.SaveToYAML(reportDir, export.NewReport(result, applied))
				if err != nil {
					return err
				}
				slog.Info("report written", "path", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Catalog data directory (default ./data)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Fetch catalog files from this URL instead of a local directory")
	cmd.Flags().StringVar(&overlayDir, "overlay", "overlay", "Directory holding the local edit overlay")
	cmd.Flags().StringVar(&reportDir, "report", "", "Write a YAML reconciliation report into this directory")

	return cmd
}
