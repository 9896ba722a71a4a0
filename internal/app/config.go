package app

import (
	"strings"
	"time"

	"github.com/yungbote/pageinsights-backend/internal/platform/envutil"
)

type Config struct {
	Mode         string
	HTTPAddr     string
	AllowOrigins []string

	PostgresDSN string
	SQLitePath  string

	CacheEnabled bool
	RedisURL     string
	CacheTTL     time.Duration

	ScraperBaseURL       string
	ScraperUserAgent     string
	ScraperTimeout       time.Duration
	ScraperWallThreshold int
	PostsLimit           int
	EmployeesLimit       int
}

func LoadConfig() Config {
	cfg := Config{
		Mode:     envutil.String("LOG_MODE", "development"),
		HTTPAddr: envutil.String("HTTP_ADDR", ":8080"),

		PostgresDSN: envutil.String("POSTGRES_DSN", ""),
		SQLitePath:  envutil.String("SQLITE_PATH", "pageinsights.db"),

		CacheEnabled: envutil.Bool("CACHE_ENABLED", true),
		RedisURL:     envutil.String("REDIS_URL", ""),
		CacheTTL:     envutil.Duration("CACHE_TTL", 300*time.Second),

		ScraperBaseURL:       envutil.String("SCRAPER_BASE_URL", ""),
		ScraperUserAgent:     envutil.String("SCRAPER_USER_AGENT", ""),
		ScraperTimeout:       envutil.Duration("SCRAPER_TIMEOUT", 30*time.Second),
		ScraperWallThreshold: envutil.Int("SCRAPER_WALL_THRESHOLD", 0),
		PostsLimit:           envutil.Int("SCRAPER_POSTS_LIMIT", 10),
		EmployeesLimit:       envutil.Int("SCRAPER_EMPLOYEES_LIMIT", 20),
	}

	if raw := envutil.String("CORS_ALLOW_ORIGINS", ""); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
			}
		}
	}
	return cfg
}
