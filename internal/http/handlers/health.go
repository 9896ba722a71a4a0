package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pageinsights-backend/internal/cache"
)

type HealthHandler struct {
	cache *cache.Manager
}

func NewHealthHandler(cacheManager *cache.Manager) *HealthHandler {
	return &HealthHandler{cache: cacheManager}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"cache_backend": h.cache.Backend(),
	})
}
