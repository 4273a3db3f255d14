package model

import "time"

// Artwork mirrors the `artworks` table. The primary key is the upstream
// catalog identifier, never locally generated, so re-fetching an artwork
// overwrites the existing row instead of duplicating it.
//
// Optional fields are pointers and stay nil when the upstream record omits
// them. Color holds the canonical serialized form of the upstream color
// value; when it is an HSL object, the decomposed channels are additionally
// stored in ColorH/ColorS/ColorL so color search can band-match in SQL.
type Artwork struct {
	ID                   uint64    `json:"id"`
	Title                *string   `json:"title"`
	AltTitles            *string   `json:"alt_titles,omitempty"`
	ArtistDisplay        *string   `json:"artist_display"`
	DateStart            *int      `json:"date_start,omitempty"`
	DateEnd              *int      `json:"date_end,omitempty"`
	DateDisplay          *string   `json:"date_display,omitempty"`
	PlaceOfOrigin        *string   `json:"place_of_origin,omitempty"`
	ClassificationTitles *string   `json:"classification_titles,omitempty"`
	Edition              *string   `json:"edition,omitempty"`
	Color                *string   `json:"color,omitempty"`
	ColorH               *int      `json:"-"`
	ColorS               *int      `json:"-"`
	ColorL               *int      `json:"-"`
	Dimensions           *string   `json:"dimensions,omitempty"`
	Description          *string   `json:"description,omitempty"`
	ImageID              *string   `json:"image_id,omitempty"`
	ArtworkTypeTitle     *string   `json:"artwork_type_title,omitempty"`
	APILink              *string   `json:"api_link,omitempty"`
	MediumDisplay        *string   `json:"medium_display,omitempty"`
	TypeID               *uint64   `json:"type_id,omitempty"`
	FetchedAt            time.Time `json:"fetched_at"`
}

// ArtworkType is a named classification bucket artworks are grouped under
// (`artwork_types` table). Rows are created lazily the first time an
// ingested artwork references the name.
type ArtworkType struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// HSL is the decomposed color representation used by color search.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}
