package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/data/repos"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/gemini"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

// ErrSummaryUnavailable means no AI provider is configured; callers
// should render it as service-unavailable, not as a failure.
var ErrSummaryUnavailable = errors.New("ai summary unavailable: no provider configured")

const (
	summaryPostsSample     = 5
	summaryEmployeesSample = 10
)

// SummaryResult carries the generated payload plus provenance.
type SummaryResult struct {
	PageID  string         `json:"page_id"`
	Summary map[string]any `json:"summary"`
	Cached  bool           `json:"cached"`
}

type SummaryService interface {
	PageSummary(ctx context.Context, pageID string, includePosts, includeEmployees, skipCache bool) (*SummaryResult, error)
}

type summaryService struct {
	log          *logger.Logger
	ai           gemini.Client
	cache        *cache.Manager
	pageRepo     repos.PageRepo
	postRepo     repos.PostRepo
	employeeRepo repos.EmployeeRepo
}

func NewSummaryService(
	baseLog *logger.Logger,
	ai gemini.Client,
	cacheManager *cache.Manager,
	pageRepo repos.PageRepo,
	postRepo repos.PostRepo,
	employeeRepo repos.EmployeeRepo,
) SummaryService {
	return &summaryService{
		log:          baseLog.With("service", "SummaryService"),
		ai:           ai,
		cache:        cacheManager,
		pageRepo:     pageRepo,
		postRepo:     postRepo,
		employeeRepo: employeeRepo,
	}
}

func (ss *summaryService) PageSummary(ctx context.Context, pageID string, includePosts, includeEmployees, skipCache bool) (*SummaryResult, error) {
	// Unavailability short-circuits before any cache lookup.
	if ss.ai == nil || !ss.ai.Available() {
		return nil, ErrSummaryUnavailable
	}

	key := summaryCacheKey(pageID, includePosts, includeEmployees)

	if !skipCache {
		var cached map[string]any
		if ss.cache.GetJSON(ctx, cache.CategoryAISummary, key, &cached) {
			return &SummaryResult{PageID: pageID, Summary: cached, Cached: true}, nil
		}
	}

	page, err := ss.pageRepo.GetByPageID(ctx, nil, pageID)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}

	var posts []*types.Post
	if includePosts {
		posts, _, err = ss.postRepo.GetByPageID(ctx, nil, pageID, 0, summaryPostsSample)
		if err != nil {
			return nil, fmt.Errorf("load posts: %w", err)
		}
	}

	var employees []*types.Employee
	if includeEmployees {
		employees, _, err = ss.employeeRepo.GetByPageID(ctx, nil, pageID, 0, summaryEmployeesSample)
		if err != nil {
			return nil, fmt.Errorf("load employees: %w", err)
		}
	}

	prompt := buildSummaryPrompt(page, posts, employees)

	text, err := ss.ai.GenerateText(ctx, prompt)
	if err != nil {
		// Never cache a failure; the next request retries.
		ss.log.Error("Summary generation failed", "page_id", pageID, "error", err)
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	payload := parseSummaryPayload(text)

	ss.cache.SetJSON(ctx, cache.CategoryAISummary, key, payload, 0)

	return &SummaryResult{PageID: pageID, Summary: payload, Cached: false}, nil
}

// summaryCacheKey folds the feature flags into the identifier so each
// flag combination caches independently.
func summaryCacheKey(pageID string, includePosts, includeEmployees bool) string {
	postsPart := "no_posts"
	if includePosts {
		postsPart = "posts"
	}
	empPart := "no_emp"
	if includeEmployees {
		empPart = "emp"
	}
	return pageID + ":" + postsPart + ":" + empPart
}

func buildSummaryPrompt(page *types.Page, posts []*types.Post, employees []*types.Employee) string {
	var sb strings.Builder
	sb.WriteString("You are an analyst. Summarize the following company page.\n")
	sb.WriteString("Respond with strict JSON of the shape ")
	sb.WriteString(`{"summary": string, "key_strengths": [string], "audience": string, "content_themes": [string]}.` + "\n\n")

	fmt.Fprintf(&sb, "Company: %s\n", page.Name)
	if page.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", page.Industry)
	}
	if page.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", page.Description)
	}
	if page.FollowerCount > 0 {
		fmt.Fprintf(&sb, "Followers: %d\n", page.FollowerCount)
	}
	if page.Headcount != "" {
		fmt.Fprintf(&sb, "Headcount: %s\n", page.Headcount)
	}
	if page.Headquarters != "" {
		fmt.Fprintf(&sb, "Headquarters: %s\n", page.Headquarters)
	}
	if len(page.Specialities) > 0 {
		fmt.Fprintf(&sb, "Specialities: %s\n", strings.Join(page.Specialities, ", "))
	}

	if len(posts) > 0 {
		sb.WriteString("\nRecent posts:\n")
		for _, p := range posts {
			content := p.Content
			if len(content) > 300 {
				content = content[:300]
			}
			fmt.Fprintf(&sb, "- (%d likes, %d comments) %s\n", p.LikeCount, p.CommentCount, content)
		}
	}

	if len(employees) > 0 {
		sb.WriteString("\nEmployees:\n")
		for _, e := range employees {
			fmt.Fprintf(&sb, "- %s, %s\n", e.Name, e.Designation)
		}
	}

	return sb.String()
}

// parseSummaryPayload decodes the model's JSON output, tolerating
// markdown code fences. Unparseable output becomes a plain-text summary.
func parseSummaryPayload(text string) map[string]any {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil || payload == nil {
		return map[string]any{"summary": strings.TrimSpace(text)}
	}
	return payload
}
