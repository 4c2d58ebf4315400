package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"WineWindow/internal/domain"
	"WineWindow/internal/metrics"
	"WineWindow/internal/ports"
)

// BackfillDeps wires the cellar repository to the lookup service.
type BackfillDeps struct {
	Repository ports.CellarRepository
	Service    ports.WindowService
	Limit      int
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Backfill fills in drinking windows for stored bottles that lack one.
type Backfill struct {
	repository ports.CellarRepository
	service    ports.WindowService
	limit      int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewBackfill constructs the backfill job.
func NewBackfill(deps BackfillDeps) *Backfill {
	return &Backfill{
		repository: deps.Repository,
		service:    deps.Service,
		limit:      deps.Limit,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Run looks up every pending bottle and writes the estimate back. A failed
// write is counted and logged; the run carries on with the next bottle.
func (b *Backfill) Run(ctx context.Context) (domain.BackfillReport, error) {
	var report domain.BackfillReport
	if b.repository == nil || b.service == nil {
		return report, nil
	}

	wines, err := b.repository.PendingWines(ctx, b.limit)
	if err != nil {
		return report, fmt.Errorf("load pending wines: %w", err)
	}
	b.log(slog.LevelInfo, "backfill started", "pending", len(wines))

	for _, wine := range wines {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Scanned++

		est := b.service.GetDrinkingWindow(ctx, wine.Query())
		if err := b.repository.SaveWindow(ctx, wine.ID, est); err != nil {
			report.Failed++
			b.metrics.Backfilled("failed")
			b.log(slog.LevelWarn, "save drinking window", "wine_id", wine.ID, "wine", wine.Name, "error", err)
			continue
		}

		report.Updated++
		b.metrics.Backfilled("updated")
		b.log(slog.LevelDebug, "wine updated", "wine_id", wine.ID, "wine", wine.Name, "vintage", wine.Vintage,
			"window", est.Window.String(), "source", est.Source, "confidence", est.Confidence)
	}

	b.log(slog.LevelInfo, "backfill finished", "scanned", report.Scanned, "updated", report.Updated, "failed", report.Failed)
	return report, nil
}

func (b *Backfill) log(level slog.Level, msg string, args ...any) {
	if b.logger != nil {
		b.logger.Log(context.Background(), level, msg, args...)
	}
}
