package pages

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type CommentRepo interface {
	GetByCommentID(ctx context.Context, tx *gorm.DB, commentID string) (*types.Comment, error)
	Upsert(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error)
	UpsertMany(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)
	GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Comment, int64, error)
	GetByPostID(ctx context.Context, tx *gorm.DB, postID string, skip, limit int) ([]*types.Comment, int64, error)
	DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *commentRepo) GetByCommentID(ctx context.Context, tx *gorm.DB, commentID string) (*types.Comment, error) {
	var comment types.Comment
	err := r.conn(tx).WithContext(ctx).
		Where("comment_id = ?", commentID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) Upsert(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error) {
	db := r.conn(tx).WithContext(ctx)

	existing, err := r.GetByCommentID(ctx, tx, comment.CommentID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := db.Create(comment).Error; err != nil {
			return nil, err
		}
		return comment, nil
	}

	existing.AuthorName = comment.AuthorName
	existing.AuthorProfileURL = comment.AuthorProfileURL
	existing.AuthorHeadline = comment.AuthorHeadline
	existing.Content = comment.Content
	existing.LikeCount = comment.LikeCount
	existing.CommentedAt = comment.CommentedAt
	existing.ScrapedAt = comment.ScrapedAt

	if err := db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *commentRepo) UpsertMany(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
	if len(comments) == 0 {
		return []*types.Comment{}, nil
	}
	out := make([]*types.Comment, 0, len(comments))
	for _, comment := range comments {
		stored, err := r.Upsert(ctx, tx, comment)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *commentRepo) GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Comment, int64, error) {
	return r.list(ctx, tx, "page_id = ?", pageID, skip, limit)
}

func (r *commentRepo) GetByPostID(ctx context.Context, tx *gorm.DB, postID string, skip, limit int) ([]*types.Comment, int64, error) {
	return r.list(ctx, tx, "post_id = ?", postID, skip, limit)
}

func (r *commentRepo) list(ctx context.Context, tx *gorm.DB, cond string, arg string, skip, limit int) ([]*types.Comment, int64, error) {
	db := r.conn(tx).WithContext(ctx).Model(&types.Comment{}).Where(cond, arg)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Comment
	if err := db.
		Order("commented_at IS NULL, commented_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *commentRepo) DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("page_id = ?", pageID).
		Delete(&types.Comment{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
