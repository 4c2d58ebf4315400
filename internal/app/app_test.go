package app

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WineWindow/internal/config"
	"WineWindow/internal/domain"
	"WineWindow/internal/source"
)

type fixedSource struct {
	name     string
	estimate domain.WindowEstimate
}

func (s fixedSource) Name() string { return s.name }

func (s fixedSource) Lookup(context.Context, domain.WineQuery) (domain.WindowEstimate, error) {
	if s.estimate.Window.End == 0 {
		return domain.WindowEstimate{}, source.ErrNoMatch
	}
	return s.estimate, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.LoadFile("")
	cfg.Lookup.Pacing = -1
	cfg.Database.DSN = filepath.Join(t.TempDir(), "cellar.db")
	return cfg
}

func TestLookupFallsBackWhenSourcesDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Lookup.DisabledSources = source.NewDefaultRegistry(nil, nil).Names()

	application := New(cfg, quietLogger())
	est := application.Lookup(context.Background(), domain.WineQuery{Name: "Chateau Margaux", Vintage: 2015})

	assert.Equal(t, domain.FallbackSource, est.Source)
	assert.Equal(t, domain.Window{Start: 2023, End: 2055}, est.Window)
	assert.Equal(t, 2033, est.PeakYear)
}

func TestSourcesReportsEnabledState(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Lookup.DisabledSources = []string{source.Vivino}

	infos := New(cfg, quietLogger()).Sources()
	require.Len(t, infos, 9)
	assert.Equal(t, source.CellarTracker, infos[0].Name)
	assert.Equal(t, "CellarTracker", infos[0].Label)

	for _, info := range infos {
		assert.Equal(t, info.Name != source.Vivino, info.Enabled, info.Name)
	}
}

func TestBackfillWritesWindows(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	db, err := sqlx.Open("sqlite", cfg.Database.DSN)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE wine (
	id INTEGER PRIMARY KEY, name TEXT NOT NULL, vintage INTEGER NOT NULL,
	drinking_window TEXT, color TEXT, country TEXT, region TEXT, grape_varietal TEXT,
	drinking_window_confidence TEXT, drinking_window_source TEXT,
	peak_drinking_year INTEGER, window_notes TEXT
);
INSERT INTO wine (id, name, vintage, color) VALUES (1, 'Cellar Red', 2019, 'Red'), (2, 'House White', 2021, 'White');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	registry := source.NewRegistry()
	registry.Register(fixedSource{name: "house", estimate: domain.WindowEstimate{
		Window: domain.Window{Start: 2024, End: 2030}, Confidence: domain.ConfidenceHigh, Source: "House Notes",
	}})
	application := newApplication(cfg, quietLogger(), registry)

	report, err := application.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BackfillReport{Scanned: 2, Updated: 2}, report)

	db, err = sqlx.Open("sqlite", cfg.Database.DSN)
	require.NoError(t, err)
	defer db.Close()

	var windows []string
	require.NoError(t, db.Select(&windows, `SELECT drinking_window FROM wine ORDER BY id`))
	assert.Equal(t, []string{"2024-2030", "2024-2030"}, windows)

	rec := httptest.NewRecorder()
	application.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `winewindow_backfill_wines_total{status="updated"} 2`)
	assert.Contains(t, body, `winewindow_lookups_total{outcome="source"} 2`)
}

func TestBackfillMissingTable(t *testing.T) {
	t.Parallel()

	application := newApplication(testConfig(t), quietLogger(), source.NewRegistry())
	_, err := application.Backfill(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "load pending wines"), err.Error())
}

func TestWatchStopsWithContext(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Scheduler.Interval = time.Hour
	application := newApplication(cfg, quietLogger(), source.NewRegistry())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- application.Watch(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancellation")
	}
}

func TestLookupPacingFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, lookupPacing(config.LoadFile("").Lookup))
	assert.Equal(t, 250*time.Millisecond, lookupPacing(config.LookupConfig{Pacing: 250 * time.Millisecond}))
	assert.Less(t, lookupPacing(config.LookupConfig{Pacing: 0}), time.Duration(0))
}

func TestLookupWithZeroPacingDoesNotWait(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Lookup.Pacing = 0

	registry := source.NewRegistry()
	for _, name := range []string{"a", "b", "c", "d"} {
		registry.Register(fixedSource{name: name})
	}
	application := newApplication(cfg, quietLogger(), registry)

	started := time.Now()
	est := application.Lookup(context.Background(), domain.WineQuery{Name: "House Red", Vintage: 2021})
	assert.Equal(t, domain.FallbackSource, est.Source)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
}
