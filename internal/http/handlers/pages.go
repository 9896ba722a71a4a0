package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/data/repos"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/http/response"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
	"github.com/yungbote/pageinsights-backend/internal/services"
)

type PagesHandler struct {
	svc   services.PageService
	cache *cache.Manager
	log   *logger.Logger
}

func NewPagesHandler(svc services.PageService, cacheManager *cache.Manager, baseLog *logger.Logger) *PagesHandler {
	return &PagesHandler{
		svc:   svc,
		cache: cacheManager,
		log:   baseLog.With("handler", "PagesHandler"),
	}
}

// GetPage serves GET /pages/:pageId. A cached detail wins unless
// force_refresh is set; otherwise the acquisition pipeline decides.
func (h *PagesHandler) GetPage(c *gin.Context) {
	pageID := strings.TrimSpace(c.Param("pageId"))
	if pageID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_page_id", errors.New("page id is required"))
		return
	}
	forceRefresh := boolQuery(c, "force_refresh", false)

	if !forceRefresh {
		var cached types.Page
		if h.cache.GetJSON(c.Request.Context(), cache.CategoryPage, pageID, &cached) {
			response.RespondData(c, &cached, "cache")
			return
		}
	}

	result, err := h.svc.GetPage(c.Request.Context(), pageID, forceRefresh)
	if err != nil {
		h.log.Error("GetPage failed", "page_id", pageID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("failed to load page"))
		return
	}

	if !result.Success {
		if result.IsLoginWall {
			response.RespondError(c, http.StatusServiceUnavailable, "login_wall", errors.New(result.ErrorMessage))
			return
		}
		response.RespondError(c, http.StatusBadGateway, "scrape_failed", errors.New(result.ErrorMessage))
		return
	}

	h.cache.SetJSON(c.Request.Context(), cache.CategoryPage, pageID, result.Page, 0)
	response.RespondData(c, result.Page, result.Source)
}

// SearchPages serves GET /pages with name/industry/follower filters.
func (h *PagesHandler) SearchPages(c *gin.Context) {
	params := repos.SearchParams{
		Name:     strings.TrimSpace(c.Query("name")),
		Industry: strings.TrimSpace(c.Query("industry")),
	}
	if v, ok := intQueryOptional(c, "min_followers"); ok {
		params.MinFollowers = &v
	}
	if v, ok := intQueryOptional(c, "max_followers"); ok {
		params.MaxFollowers = &v
	}
	page, limit := pageParams(c)

	results, total, err := h.svc.SearchPages(c.Request.Context(), params, page, limit)
	if err != nil {
		h.log.Error("SearchPages failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("search failed"))
		return
	}
	response.RespondPaginated(c, results, response.NewPagination(page, limit, total))
}

func (h *PagesHandler) GetPosts(c *gin.Context) {
	h.listDependents(c, "posts", func(pageID string, page, limit int) (any, int64, error) {
		items, total, err := h.svc.GetPosts(c.Request.Context(), pageID, page, limit)
		return items, total, err
	})
}

func (h *PagesHandler) GetEmployees(c *gin.Context) {
	h.listDependents(c, "employees", func(pageID string, page, limit int) (any, int64, error) {
		items, total, err := h.svc.GetEmployees(c.Request.Context(), pageID, page, limit)
		return items, total, err
	})
}

func (h *PagesHandler) GetComments(c *gin.Context) {
	h.listDependents(c, "comments", func(pageID string, page, limit int) (any, int64, error) {
		items, total, err := h.svc.GetComments(c.Request.Context(), pageID, page, limit)
		return items, total, err
	})
}

func (h *PagesHandler) listDependents(c *gin.Context, kind string, fetch func(pageID string, page, limit int) (any, int64, error)) {
	pageID := strings.TrimSpace(c.Param("pageId"))
	if pageID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_page_id", errors.New("page id is required"))
		return
	}
	page, limit := pageParams(c)

	items, total, err := fetch(pageID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			response.RespondError(c, http.StatusNotFound, "page_not_found", err)
			return
		}
		h.log.Error("Dependent listing failed", "kind", kind, "page_id", pageID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("listing failed"))
		return
	}
	response.RespondPaginated(c, items, response.NewPagination(page, limit, total))
}

func (h *PagesHandler) DeletePage(c *gin.Context) {
	pageID := strings.TrimSpace(c.Param("pageId"))
	if pageID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_page_id", errors.New("page id is required"))
		return
	}

	deleted, err := h.svc.DeletePage(c.Request.Context(), pageID)
	if err != nil {
		h.log.Error("DeletePage failed", "page_id", pageID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("delete failed"))
		return
	}
	if !deleted {
		response.RespondError(c, http.StatusNotFound, "page_not_found", services.ErrPageNotFound)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "page deleted", "page_id": pageID})
}

func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func intQueryOptional(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolQuery(c *gin.Context, name string, def bool) bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
