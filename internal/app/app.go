package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"WineWindow/internal/config"
	"WineWindow/internal/domain"
	"WineWindow/internal/infrastructure/fetcher"
	"WineWindow/internal/infrastructure/scheduler"
	"WineWindow/internal/infrastructure/storage"
	"WineWindow/internal/logging"
	"WineWindow/internal/metrics"
	"WineWindow/internal/ports"
	"WineWindow/internal/source"
	"WineWindow/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// SourceInfo describes one registered source for listings.
type SourceInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *source.Registry
	gatherer *prometheus.Registry
	metrics  *metrics.Metrics
	service  *usecase.DrinkingWindowService
}

// New builds the lookup service from cfg. The cellar database is opened only
// when a backfill runs.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	pages := fetcher.NewHTTPFetcher(client, cfg.HTTP.UserAgent)
	registry := source.NewDefaultRegistry(pages, baseLogger.With("component", "source"))

	return newApplication(cfg, baseLogger, registry)
}

func newApplication(cfg config.Config, baseLogger *slog.Logger, registry *source.Registry) *Application {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	service := usecase.NewDrinkingWindowService(usecase.LookupDeps{
		Sources: registry.Ordered(cfg.Lookup.DisabledSources...),
		Pacing:  lookupPacing(cfg.Lookup),
		Metrics: m,
		Logger:  baseLogger.With("component", "lookup"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: registry,
		gatherer: reg,
		metrics:  m,
		service:  service,
	}
}

// lookupPacing turns a configured pacing of zero into the service's disabled value.
func lookupPacing(cfg config.LookupConfig) time.Duration {
	if cfg.Pacing == 0 {
		return -1
	}
	return cfg.Pacing
}

// Lookup estimates the drinking window for a single bottle.
func (a *Application) Lookup(ctx context.Context, query domain.WineQuery) domain.WindowEstimate {
	return a.service.GetDrinkingWindow(ctx, query)
}

// Sources lists every registered source in priority order.
func (a *Application) Sources() []SourceInfo {
	disabled := make(map[string]bool, len(a.cfg.Lookup.DisabledSources))
	for _, name := range a.cfg.Lookup.DisabledSources {
		disabled[name] = true
	}

	var out []SourceInfo
	for _, name := range a.registry.Names() {
		info := SourceInfo{Name: name, Label: name, Enabled: !disabled[name]}
		if src, err := a.registry.Resolve(name); err == nil {
			if labeled, ok := src.(interface{ Label() string }); ok {
				info.Label = labeled.Label()
			}
		}
		out = append(out, info)
	}
	return out
}

// Backfill runs one pass over the cellar database.
func (a *Application) Backfill(ctx context.Context) (domain.BackfillReport, error) {
	repo, err := storage.Open(ctx, a.cfg.Database.DSN)
	if err != nil {
		return domain.BackfillReport{}, err
	}
	defer repo.Close()

	return a.newBackfill(repo).Run(ctx)
}

// Watch repeats the backfill on the configured interval until ctx is done,
// serving metrics on metrics.addr when it is set.
func (a *Application) Watch(ctx context.Context) error {
	repo, err := storage.Open(ctx, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	server := a.startMetricsServer()

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.newBackfill(repo), a.logger.With("component", "scheduler"))
	started := time.Now()
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching cellar",
		"dsn", a.cfg.Database.DSN,
		"interval", a.cfg.Scheduler.Interval.String(),
		"next_run", driver.NextRun(started).Format(time.RFC3339))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sched.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if server != nil {
		if err := server.Shutdown(stopCtx); err != nil {
			a.logger.Warn("metrics server shutdown", "error", err)
		}
	}
	return nil
}

// MetricsHandler exposes the application's collectors.
func (a *Application) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})
}

func (a *Application) newBackfill(repo ports.CellarRepository) *usecase.Backfill {
	return usecase.NewBackfill(usecase.BackfillDeps{
		Repository: repo,
		Service:    a.service,
		Limit:      a.cfg.Database.Limit,
		Metrics:    a.metrics,
		Logger:     a.logger.With("component", "backfill"),
	})
}

func (a *Application) startMetricsServer() *http.Server {
	if a.cfg.Metrics.Addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.MetricsHandler())
	server := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", a.cfg.Metrics.Addr)
	return server
}
