package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

var taxonomyTables = map[domain.Taxonomy]string{
	domain.Brand:    "brands",
	domain.Material: "materials",
	domain.Color:    "colors",
	domain.Size:     "sizes",
	domain.Category: "categories",
}

func taxonomyTable(kind domain.Taxonomy) (string, error) {
	t, ok := taxonomyTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown taxonomy %q", kind)
	}
	return t, nil
}

// TaxonomyRepo serves every attribute kind from its own table.
type TaxonomyRepo struct{ db *sqlx.DB }

func NewTaxonomyRepo(db *sqlx.DB) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

type taxonomyRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (r *TaxonomyRepo) FindByID(ctx context.Context, kind domain.Taxonomy, id string) (domain.AttributeRef, bool, error) {
	table, err := taxonomyTable(kind)
	if err != nil {
		return domain.AttributeRef{}, false, err
	}
	var row taxonomyRow
	err = sqlx.GetContext(ctx, conn(ctx, r.db), &row, `SELECT id, name FROM `+table+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttributeRef{}, false, nil
	}
	if err != nil {
		return domain.AttributeRef{}, false, fmt.Errorf("find %s %s: %w", kind, id, err)
	}
	return domain.AttributeRef{ID: row.ID, Name: row.Name, Kind: kind}, true, nil
}

func (r *TaxonomyRepo) List(ctx context.Context, kind domain.Taxonomy) ([]domain.AttributeRef, error) {
	table, err := taxonomyTable(kind)
	if err != nil {
		return nil, err
	}
	var rows []taxonomyRow
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, `SELECT id, name FROM `+table+` ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]domain.AttributeRef, len(rows))
	for i, row := range rows {
		out[i] = domain.AttributeRef{ID: row.ID, Name: row.Name, Kind: kind}
	}
	return out, nil
}

// Create inserts ref; an existing id is left untouched and reported as false.
func (r *TaxonomyRepo) Create(ctx context.Context, ref domain.AttributeRef) (bool, error) {
	table, err := taxonomyTable(ref.Kind)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO `+table+`(id, name, created_at, updated_at) VALUES(?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		ref.ID, ref.Name, now, now)
	if err != nil {
		return false, fmt.Errorf("create %s: %w", ref.Kind, err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
