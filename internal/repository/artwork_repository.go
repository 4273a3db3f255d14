package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/agamjotsodhi/curated/internal/model"
)

// ArtworkRepo persists artworks keyed by their upstream catalog ID.
type ArtworkRepo struct{ DB *sql.DB }

func NewArtworkRepo(db *sql.DB) *ArtworkRepo { return &ArtworkRepo{DB: db} }

const artworkColumns = "id,title,alt_titles,artist_display,date_start,date_end," +
	"date_display,place_of_origin,classification_titles,edition,color," +
	"color_h,color_s,color_l,dimensions,description,image_id," +
	"artwork_type_title,api_link,medium_display,type_id"

// Upsert writes an artwork using merge-by-primary-key semantics: inserting
// the same upstream ID twice overwrites the row with the latest fetched
// data instead of duplicating it.
func (r *ArtworkRepo) Upsert(ctx context.Context, a *model.Artwork) error {
	const q = `INSERT INTO artworks (` + artworkColumns + `) VALUES
		(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
		title=VALUES(title), alt_titles=VALUES(alt_titles),
		artist_display=VALUES(artist_display), date_start=VALUES(date_start),
		date_end=VALUES(date_end), date_display=VALUES(date_display),
		place_of_origin=VALUES(place_of_origin),
		classification_titles=VALUES(classification_titles),
		edition=VALUES(edition), color=VALUES(color),
		color_h=VALUES(color_h), color_s=VALUES(color_s), color_l=VALUES(color_l),
		dimensions=VALUES(dimensions), description=VALUES(description),
		image_id=VALUES(image_id), artwork_type_title=VALUES(artwork_type_title),
		api_link=VALUES(api_link), medium_display=VALUES(medium_display),
		type_id=VALUES(type_id)`
	_, err := r.DB.ExecContext(ctx, q,
		a.ID, a.Title, a.AltTitles, a.ArtistDisplay, a.DateStart, a.DateEnd,
		a.DateDisplay, a.PlaceOfOrigin, a.ClassificationTitles, a.Edition,
		a.Color, a.ColorH, a.ColorS, a.ColorL, a.Dimensions, a.Description,
		a.ImageID, a.ArtworkTypeTitle, a.APILink, a.MediumDisplay, a.TypeID)
	return err
}

// GetByID fetches one artwork; ErrNotFound when absent locally.
func (r *ArtworkRepo) GetByID(ctx context.Context, id uint64) (model.Artwork, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+artworkColumns+",fetched_at FROM artworks WHERE id=? LIMIT 1", id)
	a, err := scanArtwork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Artwork{}, ErrNotFound
	}
	return a, err
}

// GetByIDs loads the given artworks, preserving the order of ids in the
// result. Missing IDs are skipped silently.
func (r *ArtworkRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Artwork, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumns+",fetched_at FROM artworks WHERE id IN ("+placeholders+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uint64]model.Artwork, len(ids))
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Artwork, 0, len(byID))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Random returns up to limit artworks in random order. Used by the explore
// page and as the no-favorites suggestion fallback. ORDER BY RAND() is fine
// at this table size.
func (r *ArtworkRepo) Random(ctx context.Context, limit int) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumns+",fetched_at FROM artworks ORDER BY RAND() LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtworks(rows)
}

// ByTypeName returns all artworks grouped under the named category.
func (r *ArtworkRepo) ByTypeName(ctx context.Context, name string) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumnsPrefixed("a")+",a.fetched_at FROM artworks a "+
			"JOIN artwork_types t ON t.id = a.type_id WHERE t.name=?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtworks(rows)
}

// ByColor selects artworks whose decomposed color channels each lie within
// tolerance of the requested channel. This is a per-channel band match
// (an axis-aligned box in HSL space), deliberately loose at the default
// tolerance of 60, not a nearest-color ranking.
func (r *ArtworkRepo) ByColor(ctx context.Context, want model.HSL, tolerance int) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+artworkColumns+",fetched_at FROM artworks WHERE "+
			"color_h BETWEEN ? AND ? AND color_s BETWEEN ? AND ? AND color_l BETWEEN ? AND ?",
		want.H-tolerance, want.H+tolerance,
		want.S-tolerance, want.S+tolerance,
		want.L-tolerance, want.L+tolerance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtworks(rows)
}

// SuggestedForUser picks up to limit artworks sharing an artist or category
// with the user's favorites, excluding anything already favorited, in
// random order. A user without favorites gets plain random artworks, since
// there is no personalization to work from.
func (r *ArtworkRepo) SuggestedForUser(ctx context.Context, userID uint64, limit int) ([]model.Artwork, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ar.id, ar.artist_display, ar.artwork_type_title
		 FROM favorites f JOIN artworks ar ON ar.id = f.artwork_id
		 WHERE f.user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		favIDs  []uint64
		artists []string
		types   []string
		seenA   = map[string]bool{}
		seenT   = map[string]bool{}
	)
	for rows.Next() {
		var (
			id     uint64
			artist sql.NullString
			ttype  sql.NullString
		)
		if err := rows.Scan(&id, &artist, &ttype); err != nil {
			return nil, err
		}
		favIDs = append(favIDs, id)
		if artist.Valid && !seenA[artist.String] {
			seenA[artist.String] = true
			artists = append(artists, artist.String)
		}
		if ttype.Valid && !seenT[ttype.String] {
			seenT[ttype.String] = true
			types = append(types, ttype.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(favIDs) == 0 {
		return r.Random(ctx, limit)
	}

	where := []string{}
	args := []any{}
	or := []string{}
	if len(artists) > 0 {
		or = append(or, "artist_display IN ("+placeholders(len(artists))+")")
		for _, a := range artists {
			args = append(args, a)
		}
	}
	if len(types) > 0 {
		or = append(or, "artwork_type_title IN ("+placeholders(len(types))+")")
		for _, t := range types {
			args = append(args, t)
		}
	}
	if len(or) > 0 {
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}
	where = append(where, "id NOT IN ("+placeholders(len(favIDs))+")")
	for _, id := range favIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	q := "SELECT " + artworkColumns + ",fetched_at FROM artworks WHERE " +
		strings.Join(where, " AND ") + " ORDER BY RAND() LIMIT ?"
	sugg, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer sugg.Close()
	return collectArtworks(sugg)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func artworkColumnsPrefixed(alias string) string {
	cols := strings.Split(artworkColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ",")
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type scanner interface{ Scan(dest ...any) error }

func scanArtwork(s scanner) (model.Artwork, error) {
	var (
		a                      model.Artwork
		title, altTitles       sql.NullString
		artist, dateDisp       sql.NullString
		place, classif         sql.NullString
		edition, color         sql.NullString
		dims, desc             sql.NullString
		imageID, typeName      sql.NullString
		apiLink, medium        sql.NullString
		dateStart, dateEnd     sql.NullInt64
		colorH, colorS, colorL sql.NullInt64
		typeID                 sql.NullInt64
	)
	if err := s.Scan(&a.ID, &title, &altTitles, &artist, &dateStart, &dateEnd,
		&dateDisp, &place, &classif, &edition, &color,
		&colorH, &colorS, &colorL, &dims, &desc, &imageID,
		&typeName, &apiLink, &medium, &typeID, &a.FetchedAt); err != nil {
		return model.Artwork{}, err
	}
	a.Title = nullStr(title)
	a.AltTitles = nullStr(altTitles)
	a.ArtistDisplay = nullStr(artist)
	a.DateStart = nullInt(dateStart)
	a.DateEnd = nullInt(dateEnd)
	a.DateDisplay = nullStr(dateDisp)
	a.PlaceOfOrigin = nullStr(place)
	a.ClassificationTitles = nullStr(classif)
	a.Edition = nullStr(edition)
	a.Color = nullStr(color)
	a.ColorH = nullInt(colorH)
	a.ColorS = nullInt(colorS)
	a.ColorL = nullInt(colorL)
	a.Dimensions = nullStr(dims)
	a.Description = nullStr(desc)
	a.ImageID = nullStr(imageID)
	a.ArtworkTypeTitle = nullStr(typeName)
	a.APILink = nullStr(apiLink)
	a.MediumDisplay = nullStr(medium)
	if typeID.Valid {
		id := uint64(typeID.Int64)
		a.TypeID = &id
	}
	return a, nil
}

func collectArtworks(rows *sql.Rows) ([]model.Artwork, error) {
	var out []model.Artwork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}
