package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pageinsights-backend/internal/http/handlers"
)

type RouterConfig struct {
	Mode          string
	AllowOrigins  []string
	PagesHandler  *handlers.PagesHandler
	AIHandler     *handlers.AIHandler
	CacheHandler  *handlers.CacheHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "prod" || cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api/v1")
	{
		// Pages
		api.GET("/pages", cfg.PagesHandler.SearchPages)
		api.GET("/pages/:pageId", cfg.PagesHandler.GetPage)
		api.GET("/pages/:pageId/posts", cfg.PagesHandler.GetPosts)
		api.GET("/pages/:pageId/employees", cfg.PagesHandler.GetEmployees)
		api.GET("/pages/:pageId/comments", cfg.PagesHandler.GetComments)
		api.DELETE("/pages/:pageId", cfg.PagesHandler.DeletePage)

		// AI
		api.GET("/ai/summary/:pageId", cfg.AIHandler.GetSummary)
		api.GET("/ai/providers", cfg.AIHandler.GetProviders)

		// Cache
		api.GET("/cache/stats", cfg.CacheHandler.GetStats)
		api.DELETE("/cache", cfg.CacheHandler.Clear)
	}

	return router
}
