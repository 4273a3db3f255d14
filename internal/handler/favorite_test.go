package handler

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agamjotsodhi/curated/internal/repository"
)

// artworkSelectColumns mirrors the artworks select list, used to satisfy
// the row scan in tests.
var artworkSelectColumns = []string{
	"id", "title", "alt_titles", "artist_display", "date_start", "date_end",
	"date_display", "place_of_origin", "classification_titles", "edition", "color",
	"color_h", "color_s", "color_l", "dimensions", "description", "image_id",
	"artwork_type_title", "api_link", "medium_display", "type_id", "fetched_at",
}

func artworkRow(id int64) *sqlmock.Rows {
	row := make([]driver.Value, len(artworkSelectColumns))
	row[0] = id
	row[len(row)-1] = time.Now()
	return sqlmock.NewRows(artworkSelectColumns).AddRow(row...)
}

func newFavoriteTest(t *testing.T) (*FavoriteHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFavoriteHandler(repository.NewFavoriteRepo(db), repository.NewArtworkRepo(db)), mock
}

func toggleRequest(t *testing.T, h *FavoriteHandler, userID uint64, artworkID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/artworks/"+artworkID+"/favorite", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/artworks/:id/favorite")
	c.SetParamNames("id")
	c.SetParamValues(artworkID)
	c.Set("user_id", userID)
	require.NoError(t, h.Toggle(c))
	return rec
}

func TestToggleReturnsLikedState(t *testing.T) {
	h, mock := newFavoriteTest(t)

	mock.ExpectQuery("SELECT .+ FROM artworks WHERE id=").
		WillReturnRows(artworkRow(99))
	mock.ExpectExec("DELETE FROM favorites").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO favorites").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := toggleRequest(t, h, 1, "99")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["liked"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleUnknownArtwork(t *testing.T) {
	h, mock := newFavoriteTest(t)

	mock.ExpectQuery("SELECT .+ FROM artworks WHERE id=").
		WillReturnRows(sqlmock.NewRows(artworkSelectColumns))

	rec := toggleRequest(t, h, 1, "404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleRejectsBadID(t *testing.T) {
	h, _ := newFavoriteTest(t)

	rec := toggleRequest(t, h, 1, "not-a-number")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusReportsLikedState(t *testing.T) {
	h, mock := newFavoriteTest(t)

	mock.ExpectQuery("SELECT 1 FROM favorites").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/artworks/99/favorite", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	c.Set("user_id", uint64(1))
	require.NoError(t, h.Status(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["liked"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleRequiresAuth(t *testing.T) {
	h, _ := newFavoriteTest(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/artworks/99/favorite", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
