package pages

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

// SearchParams filter page listings. Zero values mean "no constraint".
type SearchParams struct {
	Name         string
	Industry     string
	MinFollowers *int
	MaxFollowers *int
}

type PageRepo interface {
	GetByPageID(ctx context.Context, tx *gorm.DB, pageID string) (*types.Page, error)
	Exists(ctx context.Context, tx *gorm.DB, pageID string) (bool, error)
	// Upsert inserts a new row or overwrites the mutable fields of the
	// row sharing the natural key. The surrogate id and creation
	// timestamp of an existing row are never touched.
	Upsert(ctx context.Context, tx *gorm.DB, page *types.Page) (*types.Page, error)
	Search(ctx context.Context, tx *gorm.DB, params SearchParams, skip, limit int) ([]*types.Page, int64, error)
	// Delete removes the page row only; dependent collections are the
	// caller's responsibility. Returns false when no row matched.
	Delete(ctx context.Context, tx *gorm.DB, pageID string) (bool, error)
}

type pageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
	return &pageRepo{db: db, log: baseLog.With("repo", "PageRepo")}
}

func (r *pageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pageRepo) GetByPageID(ctx context.Context, tx *gorm.DB, pageID string) (*types.Page, error) {
	var page types.Page
	err := r.conn(tx).WithContext(ctx).
		Where("page_id = ?", pageID).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepo) Exists(ctx context.Context, tx *gorm.DB, pageID string) (bool, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Page{}).
		Where("page_id = ?", pageID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pageRepo) Upsert(ctx context.Context, tx *gorm.DB, page *types.Page) (*types.Page, error) {
	db := r.conn(tx).WithContext(ctx)

	existing, err := r.GetByPageID(ctx, tx, page.PageID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := db.Create(page).Error; err != nil {
			return nil, err
		}
		return page, nil
	}

	existing.LinkedinID = page.LinkedinID
	existing.Name = page.Name
	existing.URL = page.URL
	existing.ProfilePictureURL = page.ProfilePictureURL
	existing.Description = page.Description
	existing.Website = page.Website
	existing.Industry = page.Industry
	existing.FollowerCount = page.FollowerCount
	existing.Headcount = page.Headcount
	existing.Specialities = page.Specialities
	existing.Founded = page.Founded
	existing.Headquarters = page.Headquarters
	existing.CompanyType = page.CompanyType
	existing.ScrapedAt = page.ScrapedAt

	if err := db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *pageRepo) Search(ctx context.Context, tx *gorm.DB, params SearchParams, skip, limit int) ([]*types.Page, int64, error) {
	db := r.conn(tx).WithContext(ctx).Model(&types.Page{})

	if name := strings.TrimSpace(params.Name); name != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if industry := strings.TrimSpace(params.Industry); industry != "" {
		db = db.Where("LOWER(industry) = ?", strings.ToLower(industry))
	}
	if params.MinFollowers != nil {
		db = db.Where("follower_count >= ?", *params.MinFollowers)
	}
	if params.MaxFollowers != nil {
		db = db.Where("follower_count <= ?", *params.MaxFollowers)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Page
	if err := db.
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *pageRepo) Delete(ctx context.Context, tx *gorm.DB, pageID string) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("page_id = ?", pageID).
		Delete(&types.Page{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
