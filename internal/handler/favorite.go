package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/repository"
)

// FavoriteHandler serves favorite toggling and listing.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Artworks  *repository.ArtworkRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, a *repository.ArtworkRepo) *FavoriteHandler {
	if f == nil || a == nil {
		panic("nil dependency passed to NewFavoriteHandler")
	}
	return &FavoriteHandler{Favorites: f, Artworks: a}
}

// Toggle flips the favorite state of an artwork for the caller and returns
// the resulting state as {"liked": bool}. The artwork must already be
// persisted locally; favoriting never triggers a catalog fetch.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	artworkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || artworkID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Artworks.GetByID(ctx, artworkID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	liked, err := h.Favorites.Toggle(ctx, uid, artworkID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// Status reports whether the caller has favorited an artwork, in the same
// {"liked": bool} shape Toggle answers with, so the detail page can render
// the heart without flipping it.
func (h *FavoriteHandler) Status(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	artworkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || artworkID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	liked, err := h.Favorites.IsFavorited(ctx, uid, artworkID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// List returns every artwork the caller has favorited, newest first.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	favorites, err := h.Favorites.ListArtworks(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if favorites == nil {
		favorites = []model.Artwork{}
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": favorites, "total": len(favorites)})
}
