// Package queue defines message payloads exchanged over the message broker.
package queue

// ArtworksIngestedEvent is published after an ingest run stores records
// fetched from the upstream catalog. It carries enough information for
// downstream consumers to log or trigger analytics without querying the
// primary database.
type ArtworksIngestedEvent struct {
	Source     string `json:"source"`      // "search", "browse", "detail" or "seed"
	SearchTerm string `json:"search_term"` // the query for search-sourced runs, else empty
	Requested  int    `json:"requested"`   // records received from the catalog
	Stored     int    `json:"stored"`      // records that survived normalization and upsert
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC timestamp
}
