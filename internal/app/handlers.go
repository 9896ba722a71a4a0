package app

import (
	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/http/handlers"
	"github.com/yungbote/pageinsights-backend/internal/platform/gemini"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type Handlers struct {
	Pages  *handlers.PagesHandler
	AI     *handlers.AIHandler
	Cache  *handlers.CacheHandler
	Health *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, cacheManager *cache.Manager, ai gemini.Client) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Pages:  handlers.NewPagesHandler(serviceset.Page, cacheManager, log),
		AI:     handlers.NewAIHandler(serviceset.Summary, ai, log),
		Cache:  handlers.NewCacheHandler(cacheManager, log),
		Health: handlers.NewHealthHandler(cacheManager),
	}
}
