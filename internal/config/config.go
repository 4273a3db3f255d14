package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Catalog* fields configure the upstream art
// catalog API; Seed* fields describe the ID window ingested at startup so
// the explore and dashboard pages are never empty on a fresh database.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	CatalogBaseURL   string        // base URL of the upstream art catalog API
	CatalogTimeout   time.Duration // per-request timeout for catalog calls
	CatalogPageLimit int           // page size for catalog search calls
	CatalogCacheTTL  time.Duration // TTL for the in-process by-ID response cache

	SeedStartID   int // first artwork ID of the startup ingest window
	SeedEndID     int // one past the last artwork ID of the startup window
	SeedBatchSize int // how many IDs per catalog request during seeding
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Catalog and seed
// settings default to the public Art Institute of Chicago API and its
// documented 100-IDs-per-request cap.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		CatalogBaseURL:   getenv("CATALOG_BASE_URL", "https://api.artic.edu/api/v1"),
		CatalogTimeout:   parseDur(getenv("CATALOG_TIMEOUT", "15s")),
		CatalogPageLimit: atoiDefault(getenv("CATALOG_PAGE_LIMIT", "100"), 100),
		CatalogCacheTTL:  parseDur(getenv("CATALOG_CACHE_TTL", "10m")),

		SeedStartID:   atoiDefault(getenv("SEED_START_ID", "1"), 1),
		SeedEndID:     atoiDefault(getenv("SEED_END_ID", "101"), 101),
		SeedBatchSize: atoiDefault(getenv("SEED_BATCH_SIZE", "100"), 100),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
