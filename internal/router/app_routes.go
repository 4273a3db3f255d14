package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/agamjotsodhi/curated/internal/config"
	"github.com/agamjotsodhi/curated/internal/handler"
	"github.com/agamjotsodhi/curated/internal/middleware"
)

// RegisterApp registers the authenticated application endpoints under /v1.
// All routes require a valid JWT.  The search endpoints additionally sit
// behind the Redis token bucket because POST /v1/search fans out to the
// upstream catalog; the rate limit protects the upstream quota, not the
// database.
func RegisterApp(
	e *echo.Echo,
	jwtSecret string,
	rdb *redis.Client,
	rlCfg config.RateLimitConfig,
	search *handler.SearchHandler,
	favorites *handler.FavoriteHandler,
	profile *handler.ProfileHandler,
) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Landing page panels: suggestions, random discoveries and categories.
	g.GET("/dashboard", profile.Dashboard)

	// Search endpoints.  POST /v1/search reaches the upstream catalog;
	// category and color search only read locally persisted artworks.
	limited := g.Group("", middleware.NewTokenBucket(rlCfg, rdb))
	limited.POST("/search", search.Search)
	g.GET("/search/history", search.HistoryList)
	g.GET("/search/history/:id", search.HistoryByID)
	g.GET("/search/type", search.ByType)
	g.GET("/search/color", search.ByColor)
	g.GET("/types", search.TypeList)

	// Favorites.
	g.POST("/artworks/:id/favorite", favorites.Toggle)
	g.GET("/artworks/:id/favorite", favorites.Status)
	g.GET("/favorites", favorites.List)

	// Profile.
	g.GET("/profile", profile.Get)
	g.PUT("/profile", profile.Update)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// explore a random grid and view single artworks without an account.  Both
// endpoints are fronted by the Redis response cache: explore so that every
// caller sees the same rotation for a short window, detail because artwork
// rows change only when re-ingested.
func RegisterPublic(e *echo.Echo, rdb *redis.Client, cacheCfg config.CacheConfig, artworks *handler.ArtworkHandler) {
	cached := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	cached.GET("/explore", artworks.Explore)
	cached.GET("/artworks/:id", artworks.Detail)
}
