package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

// Config selects the backing database. When DSN is set postgres is
// used; otherwise a local sqlite file, which is the dev default.
type Config struct {
	DSN        string
	SQLitePath string
}

type Service struct {
	db       *gorm.DB
	log      *logger.Logger
	postgres bool
}

func NewService(cfg Config, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	var (
		conn *gorm.DB
		err  error
	)
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	usePostgres := cfg.DSN != ""
	if usePostgres {
		serviceLog.Info("Connecting to Postgres...")
		conn, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	} else {
		path := cfg.SQLitePath
		if path == "" {
			path = "pageinsights.db"
		}
		serviceLog.Info("Opening sqlite database", "path", path)
		conn, err = gorm.Open(sqlite.Open(path), gormCfg)
	}
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Service{db: conn, log: serviceLog, postgres: usePostgres}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.Page{},
		&types.Post{},
		&types.Comment{},
		&types.Employee{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}

	if !s.postgres {
		return nil
	}

	s.log.Info("Configuring foreign key relationships...")
	for _, ddl := range []struct {
		name string
		stmt string
	}{
		{
			name: "fk_posts_page_id",
			stmt: `ALTER TABLE "posts"
				ADD CONSTRAINT "fk_posts_page_id"
				FOREIGN KEY ("page_id")
				REFERENCES "pages"("page_id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_comments_post_id",
			stmt: `ALTER TABLE "comments"
				ADD CONSTRAINT "fk_comments_post_id"
				FOREIGN KEY ("post_id")
				REFERENCES "posts"("post_id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_employees_page_id",
			stmt: `ALTER TABLE "employees"
				ADD CONSTRAINT "fk_employees_page_id"
				FOREIGN KEY ("page_id")
				REFERENCES "pages"("page_id")
				ON DELETE CASCADE`,
		},
	} {
		exists, err := s.constraintExists(ddl.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.db.Exec(ddl.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", ddl.name, err)
		}
	}
	return nil
}

func (s *Service) constraintExists(name string) (bool, error) {
	var count int64
	err := s.db.Raw(
		`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ?`,
		name,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
