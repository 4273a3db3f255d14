package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// fieldSelection is the metadata field list requested from the upstream API
// on every call. It matches the columns of the artworks table one to one.
const fieldSelection = "id,title,alt_titles,artist_display,date_start,date_end," +
	"date_display,place_of_origin,classification_titles,edition,color,dimensions," +
	"description,image_id,artwork_type_title,api_link,medium_display"

// Config holds catalog client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL   string        // e.g. https://api.artic.edu/api/v1
	Timeout   time.Duration // per-request timeout
	PageLimit int           // page size for search calls
	CacheTTL  time.Duration // TTL of the in-process by-ID response cache
}

// DefaultConfig returns the settings for the public Art Institute of
// Chicago API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.artic.edu/api/v1",
		Timeout:   15 * time.Second,
		PageLimit: 100,
		CacheTTL:  10 * time.Minute,
	}
}

// Client talks to the catalog API. Failures are returned as errors so
// callers can tell "no matches" from "service unavailable"; the handlers
// decide how to degrade.
type Client struct {
	baseURL    string
	pageLimit  int
	httpClient *http.Client
	cache      *gocache.Cache
}

// NewClient builds a Client from cfg, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = def.PageLimit
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pageLimit:  cfg.PageLimit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      gocache.New(cfg.CacheTTL, cfg.CacheTTL*2),
	}
}

// ArtworksByIDs fetches full records for the given IDs in one request.
// Whole-batch responses are cached by their ID list so hot artworks (detail
// page fetch-on-miss) do not hammer the upstream API.
func (c *Client) ArtworksByIDs(ctx context.Context, ids []int) ([]Artwork, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	csv := joinIDs(ids)
	cacheKey := "ids:" + csv
	if cached, found := c.cache.Get(cacheKey); found {
		if records, ok := cached.([]Artwork); ok {
			return records, nil
		}
	}

	q := url.Values{}
	q.Set("ids", csv)
	q.Set("fields", fieldSelection)

	records, err := c.get(ctx, c.baseURL+"/artworks?"+q.Encode())
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, records, gocache.DefaultExpiration)
	return records, nil
}

// SearchArtworks runs a free-text query against the catalog search endpoint.
// Zero matches is a success with an empty slice, not an error.
func (c *Client) SearchArtworks(ctx context.Context, query string) ([]Artwork, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(c.pageLimit))
	q.Set("fields", fieldSelection)

	records, err := c.get(ctx, c.baseURL+"/artworks/search?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Printf("catalog: no artworks found for query %q", query)
	}
	return records, nil
}

// ArtworksInRange fetches [startID, endID) in half-open windows of
// batchSize IDs, sequentially, concatenating results in window order. The
// upstream API caps the number of IDs per request, hence the windowing. A
// failed window is logged and contributes zero records; an error is
// returned only when every window failed.
func (c *Client) ArtworksInRange(ctx context.Context, startID, endID, batchSize int) ([]Artwork, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("catalog: batch size must be positive, got %d", batchSize)
	}

	var (
		out     []Artwork
		windows int
		failed  int
		lastErr error
	)
	for i := startID; i < endID; i += batchSize {
		hi := i + batchSize
		if hi > endID {
			hi = endID
		}
		windows++

		ids := make([]int, 0, hi-i)
		for id := i; id < hi; id++ {
			ids = append(ids, id)
		}
		records, err := c.ArtworksByIDs(ctx, ids)
		if err != nil {
			failed++
			lastErr = err
			log.Printf("catalog: window [%d,%d) failed: %v", i, hi, err)
			continue
		}
		out = append(out, records...)
	}
	if windows > 0 && failed == windows {
		return nil, fmt.Errorf("catalog: all %d windows failed: %w", windows, lastErr)
	}
	return out, nil
}

// get issues one GET request and decodes the data envelope. Non-2xx
// statuses become errors carrying the status code and a short body snippet.
func (c *Client) get(ctx context.Context, rawURL string) ([]Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 240))
		return nil, fmt.Errorf("catalog: unexpected status %d: %q", resp.StatusCode, string(b))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}
	return env.Data, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
