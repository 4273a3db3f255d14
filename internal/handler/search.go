package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/repository"
	"github.com/agamjotsodhi/curated/internal/service"
	"github.com/agamjotsodhi/curated/internal/utils"
)

// Default browse window used when a search is submitted with an empty
// query: the first hundred catalog IDs, fetched in two windows. The
// upstream API caps IDs per request well above 50, but smaller windows
// keep a single slow response from stalling the whole browse.
const (
	defaultBrowseStart = 1
	defaultBrowseEnd   = 101
	defaultBrowseBatch = 50
)

// defaultColorTolerance is the band width applied to each HSL channel in
// color search. 60 is deliberately loose so a color picker click still
// surfaces a useful page of matches.
const defaultColorTolerance = 60

// SearchHandler owns every search entry point: free-text search against the
// upstream catalog, and category/color searches against locally persisted
// artworks.
type SearchHandler struct {
	Catalog  *catalog.Client
	Ingestor *service.Ingestor
	Artworks *repository.ArtworkRepo
	Types    *repository.ArtworkTypeRepo
	History  *repository.SearchHistoryRepo
}

func NewSearchHandler(cat *catalog.Client, ing *service.Ingestor, artworks *repository.ArtworkRepo, types *repository.ArtworkTypeRepo, history *repository.SearchHistoryRepo) *SearchHandler {
	if cat == nil || ing == nil || artworks == nil || types == nil || history == nil {
		panic("nil dependency passed to NewSearchHandler")
	}
	return &SearchHandler{Catalog: cat, Ingestor: ing, Artworks: artworks, Types: types, History: history}
}

type searchReq struct {
	Query string `json:"query"`
}

type searchResp struct {
	Results   []model.Artwork `json:"results"`
	Total     int             `json:"total"`
	HistoryID *uint64         `json:"history_id,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Search runs a free-text catalog search, or the default browse window when
// the query is empty. Fetched records are ingested, then the query and a
// snapshot of the results are appended to the user's search history; the
// new history ID is returned so the results page can be replayed via URL.
// Upstream failure degrades to an empty result set; the page sees "no
// results" either way, and the distinction lives in the server log.
func (h *SearchHandler) Search(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req searchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	query := strings.TrimSpace(req.Query)

	// Sequential batched fetches can take a while; allow more than the
	// usual 5 second database timeout.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	var (
		records []catalog.Artwork
		source  = "search"
	)
	if query != "" {
		records, err = h.Catalog.SearchArtworks(ctx, query)
	} else {
		source = "browse"
		records, err = h.Catalog.ArtworksInRange(ctx, defaultBrowseStart, defaultBrowseEnd, defaultBrowseBatch)
	}
	if err != nil {
		log.Printf("search: catalog unavailable: %v", err)
		return c.JSON(http.StatusOK, searchResp{
			Results: []model.Artwork{},
			Message: "no artworks found for the given query",
		})
	}

	stored := h.Ingestor.IngestAll(ctx, records, source, query)
	if len(stored) == 0 {
		return c.JSON(http.StatusOK, searchResp{
			Results: []model.Artwork{},
			Message: "no artworks found for the given query",
		})
	}

	snapshot, err := json.Marshal(stored)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode results failed"})
	}
	snap := string(snapshot)
	historyID, err := h.History.Append(ctx, uid, query, &snap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save history failed"})
	}

	return c.JSON(http.StatusOK, searchResp{
		Results:   stored,
		Total:     len(stored),
		HistoryID: &historyID,
	})
}

// HistoryByID replays a stored search. The snapshot supplies the result
// set's IDs and ordering; the rows themselves are loaded fresh from the
// artworks table so a replay reflects later re-ingests of the same works.
// Only the owner may replay a history row.
func (h *SearchHandler) HistoryByID(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid history id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.History.GetByID(ctx, id, uid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no search results found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	results := []model.Artwork{}
	if entry.Results != nil {
		var snapshot []model.Artwork
		if err := json.Unmarshal([]byte(*entry.Results), &snapshot); err != nil {
			log.Printf("search: history %d snapshot corrupt: %v", id, err)
		} else if len(snapshot) > 0 {
			ids := make([]uint64, len(snapshot))
			for i, a := range snapshot {
				ids[i] = a.ID
			}
			rows, err := h.Artworks.GetByIDs(ctx, ids)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if rows != nil {
				results = rows
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"search_term": entry.SearchTerm,
		"results":     results,
		"total":       len(results),
		"created_at":  entry.CreatedAt,
	})
}

// HistoryList returns the user's recent search terms without snapshots.
func (h *SearchHandler) HistoryList(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.History.ListByUser(ctx, uid, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entries == nil {
		entries = []model.SearchHistory{}
	}
	return c.JSON(http.StatusOK, echo.Map{"history": entries})
}

// ByType returns locally persisted artworks of one category. This entry
// point never calls the upstream catalog.
func (h *SearchHandler) ByType(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	results, err := h.Artworks.ByTypeName(ctx, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(results) == 0 {
		return c.JSON(http.StatusOK, searchResp{
			Results: []model.Artwork{},
			Message: "no artworks found for the selected category",
		})
	}
	return c.JSON(http.StatusOK, searchResp{Results: results, Total: len(results)})
}

// ByColor band-matches locally persisted artworks against a submitted HSL
// color. The color arrives either as a JSON payload in ?color= (what the
// color picker posts) or as separate h/s/l parameters. Each channel is
// matched independently within the tolerance.
func (h *SearchHandler) ByColor(c echo.Context) error {
	var (
		want model.HSL
		err  error
	)
	if payload := strings.TrimSpace(c.QueryParam("color")); payload != "" {
		want, err = utils.ParseHSL(payload)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid color data"})
		}
	} else {
		want.H, err = strconv.Atoi(c.QueryParam("h"))
		if err == nil {
			want.S, err = strconv.Atoi(c.QueryParam("s"))
		}
		if err == nil {
			want.L, err = strconv.Atoi(c.QueryParam("l"))
		}
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid color data"})
		}
	}

	tolerance := defaultColorTolerance
	if t := c.QueryParam("tolerance"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tolerance must be 0-100"})
		}
		tolerance = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	results, err := h.Artworks.ByColor(ctx, want, tolerance)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(results) == 0 {
		return c.JSON(http.StatusOK, searchResp{
			Results: []model.Artwork{},
			Message: "no artworks found for the selected color",
		})
	}
	return c.JSON(http.StatusOK, searchResp{Results: results, Total: len(results)})
}

// TypeList returns all known categories for the dashboard dropdown.
func (h *SearchHandler) TypeList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	types, err := h.Types.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if types == nil {
		types = []model.ArtworkType{}
	}
	return c.JSON(http.StatusOK, echo.Map{"types": types})
}
