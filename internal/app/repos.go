package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/data/repos"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type Repos struct {
	Page     repos.PageRepo
	Post     repos.PostRepo
	Comment  repos.CommentRepo
	Employee repos.EmployeeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Page:     repos.NewPageRepo(db, log),
		Post:     repos.NewPostRepo(db, log),
		Comment:  repos.NewCommentRepo(db, log),
		Employee: repos.NewEmployeeRepo(db, log),
	}
}
