package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/queue"
	"github.com/agamjotsodhi/curated/internal/repository"
	"github.com/agamjotsodhi/curated/internal/utils"
)

// Ingestor normalizes raw catalog records and upserts them. Every search,
// browse and detail fetch-on-miss funnels its results through here, so the
// local artworks table is a growing mirror of everything users have seen.
type Ingestor struct {
	Artworks *repository.ArtworkRepo
	Types    *repository.ArtworkTypeRepo
}

func NewIngestor(artworks *repository.ArtworkRepo, types *repository.ArtworkTypeRepo) *Ingestor {
	if artworks == nil || types == nil {
		panic("nil repository passed to NewIngestor")
	}
	return &Ingestor{Artworks: artworks, Types: types}
}

// IngestOne converts one raw record into a row and upserts it. The artwork
// type is resolved through the category registry (created lazily on first
// use). Upserting is idempotent: re-fetching an ID overwrites the row.
func (s *Ingestor) IngestOne(ctx context.Context, raw catalog.Artwork) (model.Artwork, error) {
	a, err := NormalizeArtwork(raw)
	if err != nil {
		return model.Artwork{}, err
	}
	if raw.ArtworkTypeTitle != nil && *raw.ArtworkTypeTitle != "" {
		typeID, err := s.Types.GetOrCreate(ctx, *raw.ArtworkTypeTitle)
		if err != nil {
			return model.Artwork{}, fmt.Errorf("resolve type %q: %w", *raw.ArtworkTypeTitle, err)
		}
		a.TypeID = &typeID
	}
	if err := s.Artworks.Upsert(ctx, &a); err != nil {
		return model.Artwork{}, fmt.Errorf("upsert artwork %d: %w", a.ID, err)
	}
	return a, nil
}

// IngestAll upserts a batch, isolating per-record failures: a record that
// cannot be normalized or persisted is logged and skipped while the rest of
// the batch proceeds. After the run an artwork.ingested event is published
// in the background; publish failures never affect the request.
func (s *Ingestor) IngestAll(ctx context.Context, raws []catalog.Artwork, source, term string) []model.Artwork {
	stored := make([]model.Artwork, 0, len(raws))
	for _, raw := range raws {
		a, err := s.IngestOne(ctx, raw)
		if err != nil {
			log.Printf("ingest: record %d skipped: %v", raw.ID, err)
			continue
		}
		stored = append(stored, a)
	}
	if len(raws) > 0 {
		ev := queue.ArtworksIngestedEvent{
			Source:     source,
			SearchTerm: term,
			Requested:  len(raws),
			Stored:     len(stored),
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = PublishArtworksIngested(pubCtx, ev)
		}()
	}
	return stored
}

// NormalizeArtwork maps a raw catalog record onto the artworks schema
// without touching the database. Absent optional fields stay nil; the
// presentation layer supplies placeholders, not the store. List-valued
// fields are flattened to ", "-delimited strings; a structured color is
// serialized canonically and decomposed into HSL channels for band search.
// A malformed color is dropped with a log line rather than sinking the
// whole record.
func NormalizeArtwork(raw catalog.Artwork) (model.Artwork, error) {
	if raw.ID <= 0 {
		return model.Artwork{}, fmt.Errorf("record without a catalog id")
	}
	a := model.Artwork{
		ID:               uint64(raw.ID),
		Title:            raw.Title,
		ArtistDisplay:    raw.ArtistDisplay,
		DateStart:        raw.DateStart,
		DateEnd:          raw.DateEnd,
		DateDisplay:      raw.DateDisplay,
		PlaceOfOrigin:    raw.PlaceOfOrigin,
		Edition:          raw.Edition,
		Dimensions:       raw.Dimensions,
		Description:      raw.Description,
		ImageID:          raw.ImageID,
		ArtworkTypeTitle: raw.ArtworkTypeTitle,
		APILink:          raw.APILink,
		MediumDisplay:    raw.MediumDisplay,
	}
	if len(raw.AltTitles) > 0 {
		joined := strings.Join(raw.AltTitles, ", ")
		a.AltTitles = &joined
	}
	if len(raw.ClassificationTitles) > 0 {
		joined := strings.Join(raw.ClassificationTitles, ", ")
		a.ClassificationTitles = &joined
	}

	color, hsl, err := utils.DecomposeColor(raw.Color)
	if err != nil {
		log.Printf("ingest: artwork %d: %v", raw.ID, err)
	} else {
		a.Color = color
		if hsl != nil {
			a.ColorH, a.ColorS, a.ColorL = &hsl.H, &hsl.S, &hsl.L
		}
	}
	return a, nil
}
