package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/repository"
	"github.com/agamjotsodhi/curated/internal/service"
)

// exploreLimit is the size of the explore grid.
const exploreLimit = 36

// ArtworkHandler serves single-artwork detail and the public explore grid.
type ArtworkHandler struct {
	Catalog  *catalog.Client
	Ingestor *service.Ingestor
	Artworks *repository.ArtworkRepo
}

func NewArtworkHandler(cat *catalog.Client, ing *service.Ingestor, artworks *repository.ArtworkRepo) *ArtworkHandler {
	if cat == nil || ing == nil || artworks == nil {
		panic("nil dependency passed to NewArtworkHandler")
	}
	return &ArtworkHandler{Catalog: cat, Ingestor: ing, Artworks: artworks}
}

// Detail returns one artwork by its upstream catalog ID. A locally
// persisted row is served directly; on a local miss the record is fetched
// from the catalog and ingested, so repeat views never leave the database.
func (h *ArtworkHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	a, err := h.Artworks.GetByID(ctx, id)
	if err == nil {
		return c.JSON(http.StatusOK, a)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	records, err := h.Catalog.ArtworksByIDs(ctx, []int{int(id)})
	if err != nil {
		log.Printf("artwork: catalog fetch %d failed: %v", id, err)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
	}
	if len(records) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
	}

	stored, err := h.Ingestor.IngestOne(ctx, records[0])
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store artwork failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Explore returns a random grid of persisted artworks. Public, no auth.
func (h *ArtworkHandler) Explore(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	results, err := h.Artworks.Random(ctx, exploreLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if results == nil {
		results = []model.Artwork{}
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results, "total": len(results)})
}
