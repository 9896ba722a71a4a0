package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/http/response"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type CacheHandler struct {
	cache *cache.Manager
	log   *logger.Logger
}

func NewCacheHandler(cacheManager *cache.Manager, baseLog *logger.Logger) *CacheHandler {
	return &CacheHandler{
		cache: cacheManager,
		log:   baseLog.With("handler", "CacheHandler"),
	}
}

// GetStats serves GET /cache/stats.
func (h *CacheHandler) GetStats(c *gin.Context) {
	stats := h.cache.Stats(c.Request.Context())
	response.RespondOK(c, gin.H{"success": true, "data": stats})
}

// Clear serves DELETE /cache. An optional category query scopes the
// clear; empty clears the whole namespace.
func (h *CacheHandler) Clear(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	cleared := h.cache.ClearAll(c.Request.Context(), category)

	h.log.Info("Cache cleared", "category", category, "entries", cleared)
	c.JSON(http.StatusOK, gin.H{"success": true, "cleared": cleared})
}
