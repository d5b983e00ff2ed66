package cmd

import (
	"fmt"
	"os"

	"github.com/household-archive/boxcat/internal/catalog"
	"github.com/household-archive/boxcat/internal/fetch"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxcat",
		Short: "Household archive box catalog with delta reconciliation",
		Long: `Boxcat reconciles a box catalog from its immutable inputs: a base
snapshot, an ordered sequence of incremental delta files produced by the
photo ingestion tool, and a locally persisted layer of field edits.

It can serve the reconciled catalog to the viewer UI, run one-shot
reconciliation passes, and export edits back to the ingestion pipeline.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newReconcileCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// newSource picks the catalog source from the flags: a local data directory
// or a static-file HTTP endpoint. Exactly one must be set.
func newSource(dataDir, baseURL string) (catalog.Source, error) {
	switch {
	case dataDir != "" && baseURL != "":
		return nil, fmt.Errorf("--data and --base-url are mutually exclusive")
	case baseURL != "":
		return fetch.NewHTTPSource(baseURL), nil
	case dataDir != "":
		return fetch.NewDirSource(dataDir), nil
	default:
		return fetch.NewDirSource("data"), nil
	}
}

// editorLabel is the name stamped on exported edit documents.
func editorLabel(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("CATALOG_EDITOR"); env != "" {
		return env
	}
	return "local"
}
