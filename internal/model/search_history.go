package model

import "time"

// SearchHistory is one row of the append-only `search_history` log. Results
// holds a JSON snapshot of the result set at search time so the results page
// can replay it without re-querying the upstream catalog. Entries are never
// deduplicated.
type SearchHistory struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	SearchTerm string    `json:"search_term"`
	Results    *string   `json:"results,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
