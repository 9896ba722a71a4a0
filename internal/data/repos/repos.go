package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/data/repos/pages"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type PageRepo = pages.PageRepo
type PostRepo = pages.PostRepo
type CommentRepo = pages.CommentRepo
type EmployeeRepo = pages.EmployeeRepo

type SearchParams = pages.SearchParams

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
	return pages.NewPageRepo(db, baseLog)
}
func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return pages.NewPostRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return pages.NewCommentRepo(db, baseLog)
}
func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return pages.NewEmployeeRepo(db, baseLog)
}
