// Package catalog is the HTTP client for the upstream art catalog API. It
// wraps the by-ID lookup and free-text search endpoints and knows how to
// split large ID ranges into request-sized windows. It performs no
// persistence; raw records are handed to the ingest service.
package catalog

import "encoding/json"

// Artwork is a raw catalog record exactly as the upstream API returns it.
// Optional fields are pointers so absence survives the round trip. Color is
// kept raw because upstream sends either a structured HSL object, a plain
// string, or nothing.
type Artwork struct {
	ID                   int             `json:"id"`
	Title                *string         `json:"title"`
	AltTitles            []string        `json:"alt_titles"`
	ArtistDisplay        *string         `json:"artist_display"`
	DateStart            *int            `json:"date_start"`
	DateEnd              *int            `json:"date_end"`
	DateDisplay          *string         `json:"date_display"`
	PlaceOfOrigin        *string         `json:"place_of_origin"`
	ClassificationTitles []string        `json:"classification_titles"`
	Edition              *string         `json:"edition"`
	Color                json.RawMessage `json:"color,omitempty"`
	Dimensions           *string         `json:"dimensions"`
	Description          *string         `json:"description"`
	ImageID              *string         `json:"image_id"`
	ArtworkTypeTitle     *string         `json:"artwork_type_title"`
	APILink              *string         `json:"api_link"`
	MediumDisplay        *string         `json:"medium_display"`
}

// envelope is the common response wrapper of both catalog endpoints.
type envelope struct {
	Data []Artwork `json:"data"`
}
