package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/data/repos"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
	"github.com/yungbote/pageinsights-backend/internal/scraper"
)

// ErrPageNotFound marks lookups against identifiers with no stored row.
var ErrPageNotFound = errors.New("page not found")

// ScrapeResult is the acquisition outcome handed to callers. Extraction
// failures land here as classified fields, never as a returned error.
type ScrapeResult struct {
	Success      bool        `json:"success"`
	Page         *types.Page `json:"page,omitempty"`
	Source       string      `json:"source,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`
	IsLoginWall  bool        `json:"is_login_wall,omitempty"`
	Retryable    bool        `json:"retryable,omitempty"`
}

const (
	SourceDatabase = "database"
	SourceScraped  = "scraped"
)

type PageServiceConfig struct {
	PostsLimit     int
	EmployeesLimit int
}

type PageService interface {
	// GetPage runs the acquisition state machine: stored row wins unless
	// forceRefresh, otherwise one live extraction attempt. The returned
	// error covers store failures only.
	GetPage(ctx context.Context, pageID string, forceRefresh bool) (*ScrapeResult, error)
	SearchPages(ctx context.Context, params repos.SearchParams, page, limit int) ([]*types.Page, int64, error)
	GetPosts(ctx context.Context, pageID string, page, limit int) ([]*types.Post, int64, error)
	GetEmployees(ctx context.Context, pageID string, page, limit int) ([]*types.Employee, int64, error)
	GetComments(ctx context.Context, pageID string, page, limit int) ([]*types.Comment, int64, error)
	// DeletePage cascades comments, posts, employees, then the page row.
	// Returns false when no row matched.
	DeletePage(ctx context.Context, pageID string) (bool, error)
}

type pageService struct {
	db           *gorm.DB
	log          *logger.Logger
	cfg          PageServiceConfig
	pageRepo     repos.PageRepo
	postRepo     repos.PostRepo
	commentRepo  repos.CommentRepo
	employeeRepo repos.EmployeeRepo
	newScraper   scraper.Factory
	cache        *cache.Manager
}

func NewPageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg PageServiceConfig,
	pageRepo repos.PageRepo,
	postRepo repos.PostRepo,
	commentRepo repos.CommentRepo,
	employeeRepo repos.EmployeeRepo,
	scraperFactory scraper.Factory,
	cacheManager *cache.Manager,
) PageService {
	if cfg.PostsLimit <= 0 {
		cfg.PostsLimit = 10
	}
	if cfg.EmployeesLimit <= 0 {
		cfg.EmployeesLimit = 20
	}
	return &pageService{
		db:           db,
		log:          baseLog.With("service", "PageService"),
		cfg:          cfg,
		pageRepo:     pageRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		employeeRepo: employeeRepo,
		newScraper:   scraperFactory,
		cache:        cacheManager,
	}
}

func (ps *pageService) GetPage(ctx context.Context, pageID string, forceRefresh bool) (*ScrapeResult, error) {
	if !forceRefresh {
		stored, err := ps.pageRepo.GetByPageID(ctx, nil, pageID)
		if err != nil {
			return nil, fmt.Errorf("load page: %w", err)
		}
		if stored != nil {
			return &ScrapeResult{Success: true, Page: stored, Source: SourceDatabase}, nil
		}
	}

	attemptID := uuid.New().String()
	log := ps.log.With("page_id", pageID, "attempt_id", attemptID)
	log.Info("Starting live acquisition", "force_refresh", forceRefresh)

	// One extraction session per attempt, released on every exit path.
	s := ps.newScraper()
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("Scraper close failed", "error", err)
		}
	}()

	snapshot, err := s.ScrapeAll(ctx, pageID, ps.cfg.PostsLimit, ps.cfg.EmployeesLimit)
	if err != nil {
		return ps.classify(log, pageID, err), nil
	}
	if snapshot == nil || snapshot.Page == nil || !scraper.ValidCompanyName(snapshot.Page.Name) {
		// An invalid identifying field means the wall page leaked into
		// the payload, even without explicit wall text.
		return ps.classify(log, pageID, &scraper.LoginWallError{PageID: pageID}), nil
	}

	merged, err := ps.persistSnapshot(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	ps.cache.Delete(ctx, cache.CategoryPage, pageID)

	log.Info("Acquisition persisted",
		"posts", len(snapshot.Posts),
		"employees", len(snapshot.Employees),
		"comments", len(snapshot.Comments),
	)
	return &ScrapeResult{Success: true, Page: merged, Source: SourceScraped}, nil
}

func (ps *pageService) classify(log *logger.Logger, pageID string, err error) *ScrapeResult {
	result := &ScrapeResult{
		Success:      false,
		ErrorMessage: err.Error(),
		IsLoginWall:  scraper.IsLoginWall(err),
		Retryable:    scraper.Retryable(err),
	}
	if result.IsLoginWall {
		log.Warn("Acquisition blocked by login wall", "page_id", pageID)
	} else {
		log.Error("Acquisition failed", "page_id", pageID, "retryable", result.Retryable, "error", err)
	}
	return result
}

func (ps *pageService) persistSnapshot(ctx context.Context, snapshot *scraper.Snapshot) (*types.Page, error) {
	now := time.Now().UTC()

	var merged *types.Page
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		merged, err = ps.pageRepo.Upsert(ctx, tx, pageFromData(snapshot.Page, now))
		if err != nil {
			return err
		}

		posts := make([]*types.Post, 0, len(snapshot.Posts))
		for i := range snapshot.Posts {
			posts = append(posts, postFromData(&snapshot.Posts[i], now))
		}
		if _, err := ps.postRepo.UpsertMany(ctx, tx, posts); err != nil {
			return err
		}

		employees := make([]*types.Employee, 0, len(snapshot.Employees))
		for i := range snapshot.Employees {
			employees = append(employees, employeeFromData(&snapshot.Employees[i], now))
		}
		if _, err := ps.employeeRepo.UpsertMany(ctx, tx, employees); err != nil {
			return err
		}

		comments := make([]*types.Comment, 0, len(snapshot.Comments))
		for i := range snapshot.Comments {
			comments = append(comments, commentFromData(&snapshot.Comments[i], now))
		}
		if _, err := ps.commentRepo.UpsertMany(ctx, tx, comments); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (ps *pageService) SearchPages(ctx context.Context, params repos.SearchParams, page, limit int) ([]*types.Page, int64, error) {
	skip, limit := paginate(page, limit)
	return ps.pageRepo.Search(ctx, nil, params, skip, limit)
}

func (ps *pageService) GetPosts(ctx context.Context, pageID string, page, limit int) ([]*types.Post, int64, error) {
	if err := ps.requirePage(ctx, pageID); err != nil {
		return nil, 0, err
	}
	skip, limit := paginate(page, limit)
	return ps.postRepo.GetByPageID(ctx, nil, pageID, skip, limit)
}

func (ps *pageService) GetEmployees(ctx context.Context, pageID string, page, limit int) ([]*types.Employee, int64, error) {
	if err := ps.requirePage(ctx, pageID); err != nil {
		return nil, 0, err
	}
	skip, limit := paginate(page, limit)
	return ps.employeeRepo.GetByPageID(ctx, nil, pageID, skip, limit)
}

func (ps *pageService) GetComments(ctx context.Context, pageID string, page, limit int) ([]*types.Comment, int64, error) {
	if err := ps.requirePage(ctx, pageID); err != nil {
		return nil, 0, err
	}
	skip, limit := paginate(page, limit)
	return ps.commentRepo.GetByPageID(ctx, nil, pageID, skip, limit)
}

func (ps *pageService) DeletePage(ctx context.Context, pageID string) (bool, error) {
	var deleted bool
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Deepest dependents first, even though the store also enforces
		// cascade on postgres.
		if _, err := ps.commentRepo.DeleteByPageID(ctx, tx, pageID); err != nil {
			return err
		}
		if _, err := ps.postRepo.DeleteByPageID(ctx, tx, pageID); err != nil {
			return err
		}
		if _, err := ps.employeeRepo.DeleteByPageID(ctx, tx, pageID); err != nil {
			return err
		}
		var err error
		deleted, err = ps.pageRepo.Delete(ctx, tx, pageID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete page: %w", err)
	}

	if deleted {
		ps.cache.Delete(ctx, cache.CategoryPage, pageID)
		ps.log.Info("Page deleted", "page_id", pageID)
	}
	return deleted, nil
}

func (ps *pageService) requirePage(ctx context.Context, pageID string) error {
	exists, err := ps.pageRepo.Exists(ctx, nil, pageID)
	if err != nil {
		return fmt.Errorf("check page: %w", err)
	}
	if !exists {
		return ErrPageNotFound
	}
	return nil
}

// paginate maps caller-facing (page, limit) to (skip, limit).
func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return (page - 1) * limit, limit
}

func pageFromData(d *scraper.PageData, scrapedAt time.Time) *types.Page {
	return &types.Page{
		PageID:            d.PageID,
		LinkedinID:        d.LinkedinID,
		Name:              d.Name,
		URL:               d.URL,
		ProfilePictureURL: d.ProfilePictureURL,
		Description:       d.Description,
		Website:           d.Website,
		Industry:          d.Industry,
		FollowerCount:     d.FollowerCount,
		Headcount:         d.Headcount,
		Specialities:      datatypes.NewJSONSlice(d.Specialities),
		Founded:           d.Founded,
		Headquarters:      d.Headquarters,
		CompanyType:       d.CompanyType,
		ScrapedAt:         scrapedAt,
	}
}

func postFromData(d *scraper.PostData, scrapedAt time.Time) *types.Post {
	return &types.Post{
		PostID:       d.PostID,
		PageID:       d.PageID,
		Content:      d.Content,
		LikeCount:    d.LikeCount,
		CommentCount: d.CommentCount,
		ShareCount:   d.ShareCount,
		MediaURL:     d.MediaURL,
		MediaType:    d.MediaType,
		PostURL:      d.PostURL,
		PostedAt:     d.PostedAt,
		ScrapedAt:    scrapedAt,
	}
}

func commentFromData(d *scraper.CommentData, scrapedAt time.Time) *types.Comment {
	return &types.Comment{
		CommentID:        d.CommentID,
		PostID:           d.PostID,
		PageID:           d.PageID,
		AuthorName:       d.AuthorName,
		AuthorProfileURL: d.AuthorProfileURL,
		AuthorHeadline:   d.AuthorHeadline,
		Content:          d.Content,
		LikeCount:        d.LikeCount,
		CommentedAt:      d.CommentedAt,
		ScrapedAt:        scrapedAt,
	}
}

func employeeFromData(d *scraper.EmployeeData, scrapedAt time.Time) *types.Employee {
	return &types.Employee{
		PageID:            d.PageID,
		Name:              d.Name,
		Designation:       d.Designation,
		Location:          d.Location,
		ProfileURL:        d.ProfileURL,
		ProfilePictureURL: d.ProfilePictureURL,
		ScrapedAt:         scrapedAt,
	}
}
