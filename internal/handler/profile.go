package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/repository"
)

// Panel sizes for the dashboard and profile pages.
const (
	dashboardSuggested = 4
	dashboardRandom    = 4
	profileSuggested   = 8
	profileFavorites   = 4
)

// ProfileHandler serves the dashboard and profile pages, which combine
// account data with personalized artwork panels.
type ProfileHandler struct {
	Users     *repository.UserRepo
	Artworks  *repository.ArtworkRepo
	Types     *repository.ArtworkTypeRepo
	Favorites *repository.FavoriteRepo
}

func NewProfileHandler(u *repository.UserRepo, a *repository.ArtworkRepo, t *repository.ArtworkTypeRepo, f *repository.FavoriteRepo) *ProfileHandler {
	if u == nil || a == nil || t == nil || f == nil {
		panic("nil dependency passed to NewProfileHandler")
	}
	return &ProfileHandler{Users: u, Artworks: a, Types: t, Favorites: f}
}

// Dashboard assembles the landing page: a suggestion panel seeded from the
// user's favorites, a random discovery panel and the category list for the
// search dropdown. Panel queries that fail degrade to empty panels so the
// page always renders.
func (h *ProfileHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	suggested, err := h.Artworks.SuggestedForUser(ctx, uid, dashboardSuggested)
	if err != nil {
		c.Logger().Warnf("dashboard: suggested panel failed: %v", err)
		suggested = nil
	}
	random, err := h.Artworks.Random(ctx, dashboardRandom)
	if err != nil {
		c.Logger().Warnf("dashboard: random panel failed: %v", err)
		random = nil
	}
	types, err := h.Types.List(ctx)
	if err != nil {
		c.Logger().Warnf("dashboard: type list failed: %v", err)
		types = nil
	}

	if suggested == nil {
		suggested = []model.Artwork{}
	}
	if random == nil {
		random = []model.Artwork{}
	}
	if types == nil {
		types = []model.ArtworkType{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"suggested": suggested,
		"random":    random,
		"types":     types,
	})
}

// Get returns the profile page payload: the account plus a suggestion panel
// and a random sample of the user's favorites.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	suggested, err := h.Artworks.SuggestedForUser(ctx, uid, profileSuggested)
	if err != nil {
		c.Logger().Warnf("profile: suggested panel failed: %v", err)
		suggested = nil
	}
	favorites, err := h.Favorites.RandomArtworks(ctx, uid, profileFavorites)
	if err != nil {
		c.Logger().Warnf("profile: favorites panel failed: %v", err)
		favorites = nil
	}

	if suggested == nil {
		suggested = []model.Artwork{}
	}
	if favorites == nil {
		favorites = []model.Artwork{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":      u,
		"suggested": suggested,
		"favorites": favorites,
	})
}

type updateProfileReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	ImageURL  string `json:"image_url"`
}

// Update overwrites the editable profile fields and returns the updated
// account. An empty first_name or image_url clears the stored value.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Users.UpdateProfile(ctx, uid, req.Username, req.Email,
		optional(req.FirstName), optional(req.ImageURL))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}
