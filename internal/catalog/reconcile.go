package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/household-archive/boxcat/internal/models"
)

// Source supplies the immutable reconciliation inputs. Implementations live
// in internal/fetch; tests supply in-memory stubs.
type Source interface {
	Base(ctx context.Context) (*models.Base, error)
	Manifest(ctx context.Context) (*models.Manifest, error)
	Delta(ctx context.Context, name string) (*models.Delta, error)
}

// Warning records a delta that was skipped during reconciliation.
type Warning struct {
	Delta  string `json:"delta" yaml:"delta"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result is the outcome of one full reconciliation pass.
type Result struct {
	Collection  *Collection
	LastUpdated string
	Stats       ApplyStats
	Warnings    []Warning
}

// Reconcile rebuilds the working collection from scratch: base snapshot,
// then each manifest delta strictly in listed order. Deltas are fetched and
// applied sequentially — a later delta may depend on an earlier one's
// effects, so this loop must never be parallelized.
//
// A missing or unparseable base is the only fatal failure. A delta that
// fails to fetch or parse is skipped with a warning; partial data beats a
// blank catalog. A missing manifest means zero deltas, with the base's
// catalog_version standing in for last_updated.
func Reconcile(ctx context.Context, src Source) (*Result, error) {
	base, err := src.Base(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load base snapshot: %w", err)
	}

	result := &Result{
		Collection:  NewCollection(),
		LastUpdated: base.CatalogVersion,
	}

	for i := range base.Items {
		item := base.Items[i]
		if err := item.Validate(); err != nil {
			slog.Warn("skip: malformed base item", "err", err)
			result.Stats.Skipped++
			continue
		}
		item.Normalize()
		result.Collection.Put(&item)
	}
	slog.Debug("base snapshot loaded", "version", base.CatalogVersion, "items", result.Collection.Len())

	manifest, err := src.Manifest(ctx)
	if err != nil {
		slog.Warn("no manifest available, serving base only", "err", err)
		return result, nil
	}
	if manifest.LastUpdated != "" {
		result.LastUpdated = manifest.LastUpdated
	}

	for _, name := range manifest.Deltas {
		delta, err := src.Delta(ctx, name)
		if err != nil {
			slog.Warn("skip: delta unavailable", "delta", name, "err", err)
			result.Warnings = append(result.Warnings, Warning{Delta: name, Reason: err.Error()})
			continue
		}
		stats := Apply(result.Collection, delta)
		result.Stats.add(stats)
		slog.Debug("delta applied", "delta", name,
			"added", stats.Added, "updated", stats.Updated,
			"removed", stats.Removed, "skipped", stats.Skipped)
	}

	return result, nil
}
