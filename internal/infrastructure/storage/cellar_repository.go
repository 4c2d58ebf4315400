package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"WineWindow/internal/domain"
	"WineWindow/internal/ports"
)

// ErrWineNotFound is returned when an update matches no row.
var ErrWineNotFound = errors.New("wine not found")

const wineTable = "wine"

// CellarRepository reads and updates the cellar's wine table. The table is
// owned by the cellar application; only the drinking-window columns are written.
type CellarRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

var _ ports.CellarRepository = (*CellarRepository)(nil)

// Open connects to the SQLite database at dsn.
func Open(ctx context.Context, dsn string) (*CellarRepository, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return NewCellarRepository(db), nil
}

// NewCellarRepository wires an existing sqlx.DB.
func NewCellarRepository(db *sqlx.DB) *CellarRepository {
	return &CellarRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Close releases the database handle.
func (r *CellarRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

type wineRow struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	Vintage        int    `db:"vintage"`
	Color          string `db:"color"`
	Country        string `db:"country"`
	Region         string `db:"region"`
	GrapeVarietal  string `db:"grape_varietal"`
	DrinkingWindow string `db:"drinking_window"`
}

// PendingWines returns bottles with no drinking window, oldest first.
// A limit of zero or less returns them all.
func (r *CellarRepository) PendingWines(ctx context.Context, limit int) ([]domain.CellarWine, error) {
	if r.db == nil {
		return nil, nil
	}

	query := r.builder.
		Select(
			"id",
			"name",
			"vintage",
			"COALESCE(color, '') AS color",
			"COALESCE(country, '') AS country",
			"COALESCE(region, '') AS region",
			"COALESCE(grape_varietal, '') AS grape_varietal",
			"COALESCE(drinking_window, '') AS drinking_window",
		).
		From(wineTable).
		Where(sq.Or{sq.Eq{"drinking_window": nil}, sq.Eq{"drinking_window": ""}}).
		OrderBy("id")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}

	var rows []wineRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("query pending wines: %w", err)
	}

	wines := make([]domain.CellarWine, 0, len(rows))
	for _, row := range rows {
		wines = append(wines, domain.CellarWine{
			ID:             row.ID,
			Name:           row.Name,
			Vintage:        row.Vintage,
			GrapeVarietal:  row.GrapeVarietal,
			Country:        row.Country,
			Region:         row.Region,
			Color:          domain.ParseColor(row.Color),
			DrinkingWindow: row.DrinkingWindow,
		})
	}

	return wines, nil
}

// SaveWindow writes the estimate into the wine's drinking-window columns.
func (r *CellarRepository) SaveWindow(ctx context.Context, wineID int64, estimate domain.WindowEstimate) error {
	if r.db == nil {
		return nil
	}

	stmt, args, err := r.builder.
		Update(wineTable).
		SetMap(map[string]any{
			"drinking_window":            estimate.Window.String(),
			"drinking_window_confidence": string(estimate.Confidence),
			"drinking_window_source":     estimate.Source,
			"peak_drinking_year":         estimate.PeakYear,
			"window_notes":               estimate.Notes,
		}).
		Where(sq.Eq{"id": wineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update wine %d: %w", wineID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("wine %d: %w", wineID, ErrWineNotFound)
	}

	return nil
}
