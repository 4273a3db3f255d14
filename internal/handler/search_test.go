package handler

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/repository"
	"github.com/agamjotsodhi/curated/internal/service"
)

func newSearchTest(t *testing.T) (*SearchHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	artworks := repository.NewArtworkRepo(db)
	types := repository.NewArtworkTypeRepo(db)
	return NewSearchHandler(
		catalog.NewClient(catalog.Config{}),
		service.NewIngestor(artworks, types),
		artworks,
		types,
		repository.NewSearchHistoryRepo(db),
	), mock
}

func colorRequest(t *testing.T, h *SearchHandler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/search/color?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.ByColor(c))
	return rec
}

func TestByColorAcceptsJSONPayload(t *testing.T) {
	h, mock := newSearchTest(t)

	// h=100 s=50 l=50 with the default tolerance of 60.
	mock.ExpectQuery("color_h BETWEEN").
		WithArgs(40, 160, -10, 110, -10, 110).
		WillReturnRows(sqlmock.NewRows(artworkSelectColumns))

	rec := colorRequest(t, h, url.Values{"color": {`{"h":100,"s":50,"l":50}`}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"], "an empty band match reads as no results")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByColorAcceptsChannelParams(t *testing.T) {
	h, mock := newSearchTest(t)

	mock.ExpectQuery("color_h BETWEEN").
		WithArgs(190, 210, 40, 60, 45, 65).
		WillReturnRows(sqlmock.NewRows(artworkSelectColumns))

	rec := colorRequest(t, h, url.Values{
		"h": {"200"}, "s": {"50"}, "l": {"55"}, "tolerance": {"10"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByColorRejectsMalformedPayload(t *testing.T) {
	h, _ := newSearchTest(t)

	cases := []url.Values{
		{"color": {`{"h":100}`}},
		{"color": {`hsl(1,2,3)`}},
		{"h": {"abc"}, "s": {"50"}, "l": {"50"}},
		{},
	}
	for _, q := range cases {
		rec := colorRequest(t, h, q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %v", q)
	}
}

func TestByColorRejectsOutOfRangeTolerance(t *testing.T) {
	h, _ := newSearchTest(t)

	rec := colorRequest(t, h, url.Values{
		"h": {"100"}, "s": {"50"}, "l": {"50"}, "tolerance": {"150"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryReplayLoadsCurrentRowsInSnapshotOrder(t *testing.T) {
	h, mock := newSearchTest(t)

	snapshot := `[{"id":7},{"id":3}]`
	mock.ExpectQuery("SELECT .+ FROM search_history WHERE id=").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "search_term", "results", "created_at"}).
			AddRow(int64(12), int64(1), "monet", snapshot, time.Now()))

	// Storage order differs from the snapshot; the response must keep the
	// snapshot's ordering while carrying the current row data.
	rows := sqlmock.NewRows(artworkSelectColumns)
	for _, id := range []int64{3, 7} {
		row := make([]driver.Value, len(artworkSelectColumns))
		row[0] = id
		row[len(row)-1] = time.Now()
		rows = rows.AddRow(row...)
	}
	mock.ExpectQuery("SELECT .+ FROM artworks WHERE id IN").
		WillReturnRows(rows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/search/history/12", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/search/history/:id")
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("user_id", uint64(1))
	require.NoError(t, h.HistoryByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SearchTerm string `json:"search_term"`
		Results    []struct {
			ID uint64 `json:"id"`
		} `json:"results"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "monet", body.SearchTerm)
	require.Len(t, body.Results, 2)
	assert.EqualValues(t, 7, body.Results[0].ID)
	assert.EqualValues(t, 3, body.Results[1].ID)
	assert.Equal(t, 2, body.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByTypeRequiresName(t *testing.T) {
	h, _ := newSearchTest(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/search/type", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.ByType(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
