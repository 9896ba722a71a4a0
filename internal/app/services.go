package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/platform/gemini"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
	"github.com/yungbote/pageinsights-backend/internal/scraper"
	"github.com/yungbote/pageinsights-backend/internal/services"
)

type Services struct {
	Page    services.PageService
	Summary services.SummaryService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	cacheManager *cache.Manager,
	ai gemini.Client,
) (Services, error) {
	log.Info("Wiring services...")

	if db == nil || cacheManager == nil {
		return Services{}, fmt.Errorf("services require a db and cache manager")
	}

	scraperFactory := func() scraper.Scraper {
		return scraper.NewLinkedInScraper(scraper.Config{
			BaseURL:        cfg.ScraperBaseURL,
			UserAgent:      cfg.ScraperUserAgent,
			Timeout:        cfg.ScraperTimeout,
			WallThreshold:  cfg.ScraperWallThreshold,
			PostsLimit:     cfg.PostsLimit,
			EmployeesLimit: cfg.EmployeesLimit,
		}, log)
	}

	pageService := services.NewPageService(
		db,
		log,
		services.PageServiceConfig{
			PostsLimit:     cfg.PostsLimit,
			EmployeesLimit: cfg.EmployeesLimit,
		},
		reposet.Page,
		reposet.Post,
		reposet.Comment,
		reposet.Employee,
		scraperFactory,
		cacheManager,
	)

	summaryService := services.NewSummaryService(
		log,
		ai,
		cacheManager,
		reposet.Page,
		reposet.Post,
		reposet.Employee,
	)

	return Services{
		Page:    pageService,
		Summary: summaryService,
	}, nil
}
