package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agamjotsodhi/curated/internal/model"
)

// SearchHistoryRepo is an append-only log of user searches. Each row keeps
// the query term and a JSON snapshot of the result set so the results page
// can replay a search without hitting the upstream catalog again.
type SearchHistoryRepo struct{ DB *sql.DB }

func NewSearchHistoryRepo(db *sql.DB) *SearchHistoryRepo { return &SearchHistoryRepo{DB: db} }

// Append records a search and returns the new row's ID. The ID travels back
// to the client and is passed via URL to replay the results, instead of a
// session-held pointer.
func (r *SearchHistoryRepo) Append(ctx context.Context, userID uint64, term string, resultsJSON *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO search_history (user_id, search_term, results) VALUES (?,?,?)",
		userID, term, resultsJSON)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID loads one history row. A row belonging to a different user
// returns ErrForbidden so one user cannot replay another's searches.
func (r *SearchHistoryRepo) GetByID(ctx context.Context, id, userID uint64) (model.SearchHistory, error) {
	var (
		h       model.SearchHistory
		results sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, search_term, results, created_at FROM search_history WHERE id=? LIMIT 1",
		id).Scan(&h.ID, &h.UserID, &h.SearchTerm, &results, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SearchHistory{}, ErrNotFound
	}
	if err != nil {
		return model.SearchHistory{}, err
	}
	if h.UserID != userID {
		return model.SearchHistory{}, ErrForbidden
	}
	if results.Valid {
		h.Results = &results.String
	}
	return h, nil
}

// ListByUser returns the user's search terms, newest first, without the
// snapshots (they can be large).
func (r *SearchHistoryRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.SearchHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, search_term, created_at FROM search_history "+
			"WHERE user_id=? ORDER BY created_at DESC LIMIT ?", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SearchHistory
	for rows.Next() {
		var h model.SearchHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.SearchTerm, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
