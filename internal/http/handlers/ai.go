package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pageinsights-backend/internal/http/response"
	"github.com/yungbote/pageinsights-backend/internal/platform/gemini"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
	"github.com/yungbote/pageinsights-backend/internal/services"
)

type AIHandler struct {
	svc services.SummaryService
	ai  gemini.Client
	log *logger.Logger
}

func NewAIHandler(svc services.SummaryService, ai gemini.Client, baseLog *logger.Logger) *AIHandler {
	return &AIHandler{
		svc: svc,
		ai:  ai,
		log: baseLog.With("handler", "AIHandler"),
	}
}

// GetSummary serves GET /ai/summary/:pageId.
func (h *AIHandler) GetSummary(c *gin.Context) {
	pageID := strings.TrimSpace(c.Param("pageId"))
	if pageID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_page_id", errors.New("page id is required"))
		return
	}

	includePosts := boolQuery(c, "include_posts", true)
	includeEmployees := boolQuery(c, "include_employees", false)
	skipCache := boolQuery(c, "skip_cache", false)

	result, err := h.svc.PageSummary(c.Request.Context(), pageID, includePosts, includeEmployees, skipCache)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSummaryUnavailable):
			response.RespondError(c, http.StatusServiceUnavailable, "summary_unavailable", err)
		case errors.Is(err, services.ErrPageNotFound):
			response.RespondError(c, http.StatusNotFound, "page_not_found", err)
		default:
			h.log.Error("GetSummary failed", "page_id", pageID, "error", err)
			response.RespondError(c, http.StatusInternalServerError, "summary_failed", errors.New("summary generation failed"))
		}
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"data":    result,
		"cached":  result.Cached,
	})
}

// GetProviders serves GET /ai/providers.
func (h *AIHandler) GetProviders(c *gin.Context) {
	available := h.ai != nil && h.ai.Available()
	response.RespondOK(c, gin.H{
		"success": true,
		"data": []gin.H{
			{"name": "gemini", "available": available},
		},
	})
}
