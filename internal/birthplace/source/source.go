// Package source reads the reference dataset from where it is kept: a JSON
// file, a Redis key holding the same document, or a Postgres table.
//
// Sources are read once at startup. Load never fails: a source error
// degrades to an empty dataset so the service still answers, reporting every
// valid code as prefix_not_found.
package source

import (
	"context"
	"log/slog"
	"time"

	"nidgate/internal/birthplace"
	"nidgate/internal/birthplace/metrics"
)

// Source produces dataset entries in document order.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]birthplace.Entry, error)
}

// Load reads src and builds the dataset. On error it logs, counts the
// failure and returns an empty dataset.
func Load(ctx context.Context, src Source, logger *slog.Logger, m *metrics.Metrics) *birthplace.Dataset {
	start := time.Now()
	entries, err := src.Load(ctx)
	m.ObserveLoadLatency(src.Name(), time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "failed to load birthplace dataset, continuing with an empty dataset",
			"source", src.Name(),
			"error", err,
		)
		m.IncrementLoadFailure(src.Name())
		m.SetDatasetEntries(src.Name(), 0)
		return birthplace.EmptyDataset()
	}

	dataset := birthplace.NewDataset(entries)
	for _, e := range dataset.Shadowed() {
		logger.WarnContext(ctx, "duplicate birthplace prefix ignored",
			"source", src.Name(),
			"prefix", e.Prefix,
			"province", e.Province,
			"city", e.City,
		)
	}
	m.SetDatasetEntries(src.Name(), dataset.Len())
	logger.InfoContext(ctx, "birthplace dataset loaded",
		"source", src.Name(),
		"entries", dataset.Len(),
		"provinces", len(dataset.Provinces()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dataset
}
