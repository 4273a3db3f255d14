package catalog

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://catalog.test/api/v1"

func newTestClient() *Client {
	return NewClient(Config{
		BaseURL:   testBaseURL,
		Timeout:   5 * time.Second,
		PageLimit: 100,
		CacheTTL:  time.Minute,
	})
}

func artworkJSON(id int, title string) string {
	return fmt.Sprintf(`{"id":%d,"title":%q,"artist_display":"Tester"}`, id, title)
}

func TestArtworksByIDs(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var gotQuery map[string]string
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks",
		func(req *http.Request) (*http.Response, error) {
			gotQuery = map[string]string{
				"ids":    req.URL.Query().Get("ids"),
				"fields": req.URL.Query().Get("fields"),
			}
			body := fmt.Sprintf(`{"data":[%s,%s]}`,
				artworkJSON(3, "Water Lilies"), artworkJSON(7, "The Bedroom"))
			return httpmock.NewStringResponse(http.StatusOK, body), nil
		})

	c := newTestClient()
	records, err := c.ArtworksByIDs(context.Background(), []int{3, 7})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 3, records[0].ID)
	require.NotNil(t, records[0].Title)
	assert.Equal(t, "Water Lilies", *records[0].Title)

	assert.Equal(t, "3,7", gotQuery["ids"])
	assert.Equal(t, fieldSelection, gotQuery["fields"])
}

func TestArtworksByIDsCachesBatches(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks",
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":[`+artworkJSON(1, "Nighthawks")+`]}`))

	c := newTestClient()
	for i := 0; i < 3; i++ {
		records, err := c.ArtworksByIDs(context.Background(), []int{1})
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "repeat batches should be served from cache")
}

func TestSearchArtworksEmptyIsNotAnError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks/search",
		httpmock.NewStringResponder(http.StatusOK, `{"data":[]}`))

	c := newTestClient()
	records, err := c.SearchArtworks(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchArtworksUpstreamError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks/search",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	c := newTestClient()
	_, err := c.SearchArtworks(context.Background(), "monet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestArtworksInRangeWindowsInOrder(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	// Echo back one record per window carrying the first requested ID, so
	// the test can observe both the windowing and the concatenation order.
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks",
		func(req *http.Request) (*http.Response, error) {
			ids := req.URL.Query().Get("ids")
			var first int
			_, err := fmt.Sscanf(ids, "%d", &first)
			require.NoError(t, err)
			return httpmock.NewStringResponse(http.StatusOK,
				`{"data":[`+artworkJSON(first, "window head")+`]}`), nil
		})

	c := newTestClient()
	records, err := c.ArtworksInRange(context.Background(), 1, 101, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 51, records[1].ID)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestArtworksInRangePartialFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	// First window fails, second succeeds. The failed window is skipped and
	// the call as a whole still succeeds.
	calls := 0
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "boom"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK,
				`{"data":[`+artworkJSON(51, "survivor")+`]}`), nil
		})

	c := newTestClient()
	records, err := c.ArtworksInRange(context.Background(), 1, 101, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 51, records[0].ID)
}

func TestArtworksInRangeAllWindowsFailed(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/artworks",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	c := newTestClient()
	_, err := c.ArtworksInRange(context.Background(), 1, 101, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 windows failed")
}

func TestArtworksInRangeRejectsBadBatchSize(t *testing.T) {
	c := newTestClient()
	_, err := c.ArtworksInRange(context.Background(), 1, 10, 0)
	assert.Error(t, err)
}

func TestArtworksByIDsEmptyInput(t *testing.T) {
	c := newTestClient()
	records, err := c.ArtworksByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}
