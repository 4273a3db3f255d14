package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/repository"
)

func newTestIngestor(t *testing.T) (*Ingestor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewIngestor(repository.NewArtworkRepo(db), repository.NewArtworkTypeRepo(db)), mock
}

func strPtr(s string) *string { return &s }

func TestNormalizeArtworkPreservesAbsence(t *testing.T) {
	a, err := NormalizeArtwork(catalog.Artwork{ID: 9})
	require.NoError(t, err)

	assert.EqualValues(t, 9, a.ID)
	assert.Nil(t, a.Title)
	assert.Nil(t, a.ArtistDisplay)
	assert.Nil(t, a.DateStart)
	assert.Nil(t, a.AltTitles)
	assert.Nil(t, a.ClassificationTitles)
	assert.Nil(t, a.Color)
	assert.Nil(t, a.ColorH)
}

func TestNormalizeArtworkJoinsListFields(t *testing.T) {
	a, err := NormalizeArtwork(catalog.Artwork{
		ID:                   12,
		AltTitles:            []string{"Untitled", "Study in Blue"},
		ClassificationTitles: []string{"painting", "modern art"},
	})
	require.NoError(t, err)

	require.NotNil(t, a.AltTitles)
	assert.Equal(t, "Untitled, Study in Blue", *a.AltTitles)
	require.NotNil(t, a.ClassificationTitles)
	assert.Equal(t, "painting, modern art", *a.ClassificationTitles)
}

func TestNormalizeArtworkDecomposesColor(t *testing.T) {
	a, err := NormalizeArtwork(catalog.Artwork{
		ID:    15,
		Color: json.RawMessage(`{"h":30,"s":80,"l":40}`),
	})
	require.NoError(t, err)

	require.NotNil(t, a.Color)
	assert.Equal(t, `{"h":30,"s":80,"l":40}`, *a.Color)
	require.NotNil(t, a.ColorH)
	assert.Equal(t, 30, *a.ColorH)
	assert.Equal(t, 80, *a.ColorS)
	assert.Equal(t, 40, *a.ColorL)
}

func TestNormalizeArtworkDropsMalformedColor(t *testing.T) {
	a, err := NormalizeArtwork(catalog.Artwork{
		ID:    16,
		Title: strPtr("Composition"),
		Color: json.RawMessage(`{"h":30}`),
	})
	require.NoError(t, err, "a bad color must not sink the record")

	assert.Nil(t, a.Color)
	assert.Nil(t, a.ColorH)
	require.NotNil(t, a.Title)
	assert.Equal(t, "Composition", *a.Title)
}

func TestNormalizeArtworkRejectsMissingID(t *testing.T) {
	_, err := NormalizeArtwork(catalog.Artwork{Title: strPtr("orphan")})
	assert.Error(t, err)
}

func TestIngestOneResolvesType(t *testing.T) {
	ing, mock := newTestIngestor(t)

	mock.ExpectExec("INSERT INTO artwork_types").
		WithArgs("Painting").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO artworks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	a, err := ing.IngestOne(context.Background(), catalog.Artwork{
		ID:               21,
		Title:            strPtr("Haystacks"),
		ArtworkTypeTitle: strPtr("Painting"),
	})
	require.NoError(t, err)

	require.NotNil(t, a.TypeID)
	assert.EqualValues(t, 7, *a.TypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestOneWithoutType(t *testing.T) {
	ing, mock := newTestIngestor(t)

	// No type title, so no registry round-trip.
	mock.ExpectExec("INSERT INTO artworks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	a, err := ing.IngestOne(context.Background(), catalog.Artwork{ID: 22})
	require.NoError(t, err)
	assert.Nil(t, a.TypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestAllIsolatesBadRecords(t *testing.T) {
	ing, mock := newTestIngestor(t)

	// Only the valid record reaches the database.
	mock.ExpectExec("INSERT INTO artworks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored := ing.IngestAll(context.Background(), []catalog.Artwork{
		{ID: 0, Title: strPtr("no id")},
		{ID: 31, Title: strPtr("kept")},
	}, "search", "monet")

	require.Len(t, stored, 1)
	assert.EqualValues(t, 31, stored[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
