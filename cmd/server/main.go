package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/agamjotsodhi/curated/internal/catalog"
	"github.com/agamjotsodhi/curated/internal/config"
	"github.com/agamjotsodhi/curated/internal/database"
	"github.com/agamjotsodhi/curated/internal/handler"
	"github.com/agamjotsodhi/curated/internal/queue"
	"github.com/agamjotsodhi/curated/internal/repository"
	"github.com/agamjotsodhi/curated/internal/router"
	"github.com/agamjotsodhi/curated/internal/service"
)

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables rate limiting and the
	// response cache, the middleware pass through.
	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	cat := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.CatalogBaseURL,
		Timeout:   cfg.CatalogTimeout,
		PageLimit: cfg.CatalogPageLimit,
		CacheTTL:  cfg.CatalogCacheTTL,
	})

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	artworks := repository.NewArtworkRepo(db)
	types := repository.NewArtworkTypeRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	history := repository.NewSearchHistoryRepo(db)
	ingestor := service.NewIngestor(artworks, types)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	search := handler.NewSearchHandler(cat, ingestor, artworks, types, history)
	artworkH := handler.NewArtworkHandler(cat, ingestor, artworks)
	favoriteH := handler.NewFavoriteHandler(favorites, artworks)
	profileH := handler.NewProfileHandler(users, artworks, types, favorites)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterApp(e, cfg.JWTSecret, rdb, rlCfg, search, favoriteH, profileH)
	router.RegisterPublic(e, rdb, cacheCfg, artworkH)

	// The ingest audit consumer reconnects on its own; a missing broker
	// never blocks serving traffic.
	go func() {
		if err := queue.StartIngestConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	// Housekeeping and seeding run off the request path.  Seeding fills a
	// fresh database with an initial artwork window so explore and the
	// dashboard have content before anyone searches.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if n, err := tokens.PurgeExpired(ctx); err != nil {
			log.Printf("token purge failed: %v", err)
		} else if n > 0 {
			log.Printf("purged %d expired refresh tokens", n)
		}

		records, err := cat.ArtworksInRange(ctx, cfg.SeedStartID, cfg.SeedEndID, cfg.SeedBatchSize)
		if err != nil {
			log.Printf("seed: catalog unavailable, skipping: %v", err)
			return
		}
		stored := ingestor.IngestAll(ctx, records, "seed", "")
		log.Printf("seed: ingested %d artworks", len(stored))
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
