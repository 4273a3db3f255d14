package repository

import (
	"context"
	"database/sql"

	"github.com/agamjotsodhi/curated/internal/model"
)

// ArtworkTypeRepo is the category registry: a get-or-create mapping from a
// type name ("Painting", "Print") to a durable identifier referenced by
// artworks.
type ArtworkTypeRepo struct{ DB *sql.DB }

func NewArtworkTypeRepo(db *sql.DB) *ArtworkTypeRepo { return &ArtworkTypeRepo{DB: db} }

// GetOrCreate returns the ID for name, inserting the row on first use.
// The single INSERT ... ON DUPLICATE KEY UPDATE round-trip leans on the
// unique index over name, so concurrent callers racing on a brand-new name
// all land on the same row without a read-then-write gap. The LAST_INSERT_ID(id)
// trick makes MySQL report the existing row's ID on conflict.
func (r *ArtworkTypeRepo) GetOrCreate(ctx context.Context, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO artwork_types (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)",
		name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns all types ordered by name, for the dashboard's category
// dropdown.
func (r *ArtworkTypeRepo) List(ctx context.Context) ([]model.ArtworkType, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM artwork_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ArtworkType
	for rows.Next() {
		var t model.ArtworkType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
