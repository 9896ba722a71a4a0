package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/db"
	"github.com/yungbote/pageinsights-backend/internal/platform/gemini"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
	"github.com/yungbote/pageinsights-backend/internal/server"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Cache    *cache.Manager
	Repos    Repos
	Services Services

	store *db.Service
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	store, err := db.NewService(db.Config{DSN: cfg.PostgresDSN, SQLitePath: cfg.SQLitePath}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}
	theDB := store.DB()

	cacheManager := cache.NewManager(cache.Config{
		Enabled:    cfg.CacheEnabled,
		RedisURL:   cfg.RedisURL,
		DefaultTTL: cfg.CacheTTL,
	}, log)

	ai, err := gemini.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, cacheManager, ai)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, cacheManager, ai)

	router := server.NewRouter(server.RouterConfig{
		Mode:          cfg.Mode,
		AllowOrigins:  cfg.AllowOrigins,
		PagesHandler:  handlerset.Pages,
		AIHandler:     handlerset.AI,
		CacheHandler:  handlerset.Cache,
		HealthHandler: handlerset.Health,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Cache:    cacheManager,
		Repos:    reposet,
		Services: serviceset,
		store:    store,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting HTTP server", "addr", a.Cfg.HTTPAddr)
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("DB close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
