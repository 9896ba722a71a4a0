package pages

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type PostRepo interface {
	GetByPostID(ctx context.Context, tx *gorm.DB, postID string) (*types.Post, error)
	Upsert(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error)
	// UpsertMany applies Upsert per element, sequentially. With a tx the
	// whole batch shares one commit boundary; without one each row
	// commits independently.
	UpsertMany(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
	GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Post, int64, error)
	DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *postRepo) GetByPostID(ctx context.Context, tx *gorm.DB, postID string) (*types.Post, error) {
	var post types.Post
	err := r.conn(tx).WithContext(ctx).
		Where("post_id = ?", postID).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) Upsert(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	db := r.conn(tx).WithContext(ctx)

	existing, err := r.GetByPostID(ctx, tx, post.PostID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		return post, nil
	}

	existing.Content = post.Content
	existing.LikeCount = post.LikeCount
	existing.CommentCount = post.CommentCount
	existing.ShareCount = post.ShareCount
	existing.MediaURL = post.MediaURL
	existing.MediaType = post.MediaType
	existing.PostURL = post.PostURL
	existing.PostedAt = post.PostedAt
	existing.ScrapedAt = post.ScrapedAt

	if err := db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *postRepo) UpsertMany(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
	if len(posts) == 0 {
		return []*types.Post{}, nil
	}
	out := make([]*types.Post, 0, len(posts))
	for _, post := range posts {
		stored, err := r.Upsert(ctx, tx, post)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *postRepo) GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Post, int64, error) {
	db := r.conn(tx).WithContext(ctx).Model(&types.Post{}).Where("page_id = ?", pageID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Post
	// "IS NULL" sorts rows without a posted_at after every dated row, on
	// sqlite and postgres alike.
	if err := db.
		Order("posted_at IS NULL, posted_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *postRepo) DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("page_id = ?", pageID).
		Delete(&types.Post{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
