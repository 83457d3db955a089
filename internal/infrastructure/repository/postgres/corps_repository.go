package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
)

type corpsTableModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	SourceYear int    `db:"source_year"`
	PointValue int64  `db:"point_value"`
}

func corpsFromRow(row corpsTableModel) corps.CatalogEntry {
	return corps.CatalogEntry{
		ID:         row.ID,
		Name:       row.Name,
		SourceYear: row.SourceYear,
		PointValue: row.PointValue,
	}
}

type CorpsRepository struct {
	db *sqlx.DB
}

func NewCorpsRepository(db *sqlx.DB) *CorpsRepository {
	return &CorpsRepository{db: db}
}

func (r *CorpsRepository) List(ctx context.Context) ([]corps.CatalogEntry, error) {
	const query = `
		SELECT id, name, source_year, point_value
		FROM corps_catalog
		ORDER BY point_value DESC, id`

	var rows []corpsTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list corps catalog: %w", err)
	}

	out := make([]corps.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, corpsFromRow(row))
	}
	return out, nil
}

func (r *CorpsRepository) GetByIDs(ctx context.Context, corpsIDs []string) ([]corps.CatalogEntry, error) {
	if len(corpsIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, source_year, point_value
		FROM corps_catalog
		WHERE id = ANY($1)`

	var rows []corpsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(corpsIDs)); err != nil {
		return nil, fmt.Errorf("get corps by ids: %w", err)
	}

	out := make([]corps.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, corpsFromRow(row))
	}
	return out, nil
}
