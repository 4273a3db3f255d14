package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agamjotsodhi/curated/internal/model"
)

// FavoriteRepo manages the user-to-artwork favorite relation.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Toggle flips the favorite state of (userID, artworkID) and reports the
// resulting state: true when the artwork is now favorited. Delete-first
// keeps the operation a strict involution; the insert path tolerates a
// duplicate-key error from a concurrent double-submit, in which case the
// row already exists and "liked" is still the right answer.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, artworkID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND artwork_id=?", userID, artworkID)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		return false, nil
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO favorites (user_id, artwork_id) VALUES (?,?)", userID, artworkID)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "1062") {
		return false, err
	}
	return true, nil
}

// IsFavorited reports whether the user has favorited the artwork.
func (r *FavoriteRepo) IsFavorited(ctx context.Context, userID, artworkID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE user_id=? AND artwork_id=? LIMIT 1",
		userID, artworkID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListArtworks returns every artwork the user has favorited, newest first.
func (r *FavoriteRepo) ListArtworks(ctx context.Context, userID uint64) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumnsPrefixed("a")+",a.fetched_at FROM artworks a "+
			"JOIN favorites f ON f.artwork_id = a.id "+
			"WHERE f.user_id=? ORDER BY f.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtworks(rows)
}

// RandomArtworks returns up to limit of the user's favorited artworks in
// random order, for the profile page preview.
func (r *FavoriteRepo) RandomArtworks(ctx context.Context, userID uint64, limit int) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumnsPrefixed("a")+",a.fetched_at FROM artworks a "+
			"JOIN favorites f ON f.artwork_id = a.id "+
			"WHERE f.user_id=? ORDER BY RAND() LIMIT ?", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtworks(rows)
}
