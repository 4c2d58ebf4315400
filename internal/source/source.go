// Package source turns a wine query into a drinking-window estimate by
// searching one external site and running its rule set over the page text.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"WineWindow/internal/domain"
	"WineWindow/internal/pattern"
	"WineWindow/internal/ports"
)

var (
	// ErrTransport covers network failures, bad statuses and unparsable pages.
	ErrTransport = errors.New("source unavailable")
	// ErrNoMatch means the page was fetched but no rule fired.
	ErrNoMatch = errors.New("no drinking window found")
)

// Grade is the confidence and note attached to a match of a given shape.
type Grade struct {
	Confidence domain.Confidence
	Notes      string
}

// Spec configures one external source.
type Spec struct {
	ID      string
	Label   string
	Request func(query domain.WineQuery) string
	Rules   []pattern.Rule
	Grades  map[pattern.Shape]Grade
}

// Adapter is a WindowSource driven by a Spec.
type Adapter struct {
	spec    Spec
	fetcher ports.TextFetcher
	logger  *slog.Logger
}

var _ ports.WindowSource = (*Adapter)(nil)

// NewAdapter binds a spec to the fetcher used for its requests.
func NewAdapter(spec Spec, fetcher ports.TextFetcher, logger *slog.Logger) *Adapter {
	return &Adapter{spec: spec, fetcher: fetcher, logger: logger}
}

// Name identifies the source in config and metrics.
func (a *Adapter) Name() string {
	return a.spec.ID
}

// Label is the provenance written into estimates.
func (a *Adapter) Label() string {
	return a.spec.Label
}

// RequestURL returns the URL searched for query.
func (a *Adapter) RequestURL(query domain.WineQuery) string {
	return a.spec.Request(query)
}

// Lookup fetches the source page and extracts the first matching window.
func (a *Adapter) Lookup(ctx context.Context, query domain.WineQuery) (domain.WindowEstimate, error) {
	if a.fetcher == nil {
		return domain.WindowEstimate{}, fmt.Errorf("%s: no fetcher configured: %w", a.spec.ID, ErrTransport)
	}

	pageURL := a.RequestURL(query)
	text, err := a.fetcher.FetchText(ctx, pageURL)
	if err != nil {
		return domain.WindowEstimate{}, fmt.Errorf("%s: %v: %w", a.spec.ID, err, ErrTransport)
	}

	match, ok := pattern.Extract(a.spec.Rules, text, query.Vintage)
	if !ok {
		return domain.WindowEstimate{}, fmt.Errorf("%s: %w", a.spec.ID, ErrNoMatch)
	}

	grade, ok := a.spec.Grades[match.Shape]
	if !ok {
		return domain.WindowEstimate{}, fmt.Errorf("%s: %s match is not graded: %w", a.spec.ID, match.Shape, ErrNoMatch)
	}

	a.debug("window matched", "source", a.spec.ID, "window", match.Window.String(), "shape", match.Shape.String(), "text", match.Text)

	return domain.WindowEstimate{
		Window:     match.Window,
		Confidence: grade.Confidence,
		Source:     a.spec.Label,
		Notes:      grade.Notes,
	}, nil
}

func (a *Adapter) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
