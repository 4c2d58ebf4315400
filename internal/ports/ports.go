package ports

import (
	"context"
	"time"

	"WineWindow/internal/domain"
)

// TextFetcher downloads a page and returns it flattened to plain text.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// WindowSource looks a wine up in one external source.
// Any error means the source produced no result.
type WindowSource interface {
	Name() string
	Lookup(ctx context.Context, query domain.WineQuery) (domain.WindowEstimate, error)
}

// Estimator always produces an estimate from the query alone.
type Estimator interface {
	Estimate(query domain.WineQuery) domain.WindowEstimate
}

// EstimateCache stores finished estimates by normalized key.
type EstimateCache interface {
	Get(key string) (domain.WindowEstimate, bool)
	Put(key string, estimate domain.WindowEstimate)
}

// WindowService is the inbound entry point used by the cellar collaborator.
type WindowService interface {
	GetDrinkingWindow(ctx context.Context, query domain.WineQuery) domain.WindowEstimate
}

// CellarRepository reads bottles missing a window and writes estimates back.
type CellarRepository interface {
	PendingWines(ctx context.Context, limit int) ([]domain.CellarWine, error)
	SaveWindow(ctx context.Context, wineID int64, estimate domain.WindowEstimate) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
