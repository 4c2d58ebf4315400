package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"WineWindow/internal/cache"
	"WineWindow/internal/domain"
	"WineWindow/internal/fallback"
	"WineWindow/internal/metrics"
	"WineWindow/internal/ports"
	"WineWindow/internal/source"
)

// DefaultPacing is the pause between two source attempts.
const DefaultPacing = time.Second

// LookupDeps wires the sources and supporting pieces into the lookup service.
type LookupDeps struct {
	Sources  []ports.WindowSource
	Fallback ports.Estimator
	Cache    ports.EstimateCache
	Pacing   time.Duration
	Wait     func(ctx context.Context, d time.Duration) error
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// DrinkingWindowService walks the sources in priority order and falls back to
// the rule engine when none of them answers.
type DrinkingWindowService struct {
	sources  []ports.WindowSource
	fallback ports.Estimator
	cache    ports.EstimateCache
	pacing   time.Duration
	wait     func(ctx context.Context, d time.Duration) error
	metrics  *metrics.Metrics
	logger   *slog.Logger
	inflight singleflight.Group
}

var _ ports.WindowService = (*DrinkingWindowService)(nil)

// NewDrinkingWindowService fills unset deps with the rule engine, a fresh
// in-memory cache and DefaultPacing. A negative pacing disables the pause.
func NewDrinkingWindowService(deps LookupDeps) *DrinkingWindowService {
	s := &DrinkingWindowService{
		sources:  deps.Sources,
		fallback: deps.Fallback,
		cache:    deps.Cache,
		pacing:   deps.Pacing,
		wait:     deps.Wait,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
	if s.fallback == nil {
		s.fallback = fallback.New()
	}
	if s.cache == nil {
		s.cache = cache.NewMemory()
	}
	if s.pacing == 0 {
		s.pacing = DefaultPacing
	}
	if s.wait == nil {
		s.wait = sleepContext
	}
	return s
}

// GetDrinkingWindow never fails: if no source answers the rule engine does.
// Repeated queries for the same name and vintage are served from the cache.
func (s *DrinkingWindowService) GetDrinkingWindow(ctx context.Context, query domain.WineQuery) domain.WindowEstimate {
	if err := query.Validate(); err != nil {
		s.warn("invalid query, using rules only", "error", err)
		s.metrics.Lookup(metrics.OutcomeFallback)
		return s.fallback.Estimate(query).WithPeak()
	}

	key := query.CacheKey()
	if est, ok := s.cache.Get(key); ok {
		s.debug("cache hit", "key", key)
		s.metrics.Lookup(metrics.OutcomeCache)
		return est
	}

	for {
		v, _, _ := s.inflight.Do(key, func() (any, error) {
			if est, ok := s.cache.Get(key); ok {
				s.metrics.Lookup(metrics.OutcomeCache)
				return flight{estimate: est, complete: true}, nil
			}

			est, complete := s.resolve(ctx, query)
			if complete {
				s.cache.Put(key, est)
			}
			return flight{estimate: est, complete: complete}, nil
		})

		// A flight cut short by another caller's context is retried on ours.
		res := v.(flight)
		if res.complete || ctx.Err() != nil {
			return res.estimate
		}
		s.debug("shared lookup was cancelled, retrying", "key", key)
	}
}

type flight struct {
	estimate domain.WindowEstimate
	complete bool
}

// resolve reports complete=false when the context ended before every source
// was consulted; such results are not cached.
func (s *DrinkingWindowService) resolve(ctx context.Context, query domain.WineQuery) (domain.WindowEstimate, bool) {
	started := time.Now()
	defer func() { s.metrics.ObserveLookup(time.Since(started)) }()

	for i, src := range s.sources {
		if i > 0 && s.pacing > 0 {
			if err := s.wait(ctx, s.pacing); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		est, err := s.try(ctx, src, query)
		if err != nil {
			s.debug("source produced no result", "source", src.Name(), "wine", query.Name, "vintage", query.Vintage, "error", err)
			s.metrics.SourceAttempt(src.Name(), attemptResult(err))
			continue
		}

		s.metrics.SourceAttempt(src.Name(), metrics.ResultHit)
		s.metrics.Lookup(metrics.OutcomeSource)
		est = est.WithPeak()
		s.info("drinking window found", "source", est.Source, "wine", query.Name, "vintage", query.Vintage, "window", est.Window.String(), "confidence", est.Confidence)
		return est, true
	}

	est := s.fallback.Estimate(query).WithPeak()
	s.metrics.Lookup(metrics.OutcomeFallback)
	s.info("drinking window estimated by rules", "wine", query.Name, "vintage", query.Vintage, "window", est.Window.String(), "notes", est.Notes)

	return est, ctx.Err() == nil
}

// try shields the loop from adapter panics and empty answers.
func (s *DrinkingWindowService) try(ctx context.Context, src ports.WindowSource, query domain.WineQuery) (est domain.WindowEstimate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v: %w", src.Name(), r, source.ErrTransport)
		}
	}()

	est, err = src.Lookup(ctx, query)
	if err != nil {
		return domain.WindowEstimate{}, err
	}
	if est.Window == (domain.Window{}) {
		return domain.WindowEstimate{}, fmt.Errorf("%s returned an empty window: %w", src.Name(), source.ErrNoMatch)
	}
	est.Window = domain.NewWindow(est.Window.Start, est.Window.End)
	return est, nil
}

func attemptResult(err error) string {
	if errors.Is(err, source.ErrNoMatch) {
		return metrics.ResultNoMatch
	}
	return metrics.ResultTransport
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DrinkingWindowService) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *DrinkingWindowService) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *DrinkingWindowService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
