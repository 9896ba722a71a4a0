package pages

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type EmployeeRepo interface {
	// GetByName looks up by the composite natural key (page_id, name);
	// the source guarantees no separate external id for employees.
	GetByName(ctx context.Context, tx *gorm.DB, pageID, name string) (*types.Employee, error)
	Upsert(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	UpsertMany(ctx context.Context, tx *gorm.DB, employees []*types.Employee) ([]*types.Employee, error)
	GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Employee, int64, error)
	DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error)
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return &employeeRepo{db: db, log: baseLog.With("repo", "EmployeeRepo")}
}

func (r *employeeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *employeeRepo) GetByName(ctx context.Context, tx *gorm.DB, pageID, name string) (*types.Employee, error) {
	var employee types.Employee
	err := r.conn(tx).WithContext(ctx).
		Where("page_id = ? AND name = ?", pageID, name).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) Upsert(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	db := r.conn(tx).WithContext(ctx)

	existing, err := r.GetByName(ctx, tx, employee.PageID, employee.Name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := db.Create(employee).Error; err != nil {
			return nil, err
		}
		return employee, nil
	}

	existing.Designation = employee.Designation
	existing.Location = employee.Location
	existing.ProfileURL = employee.ProfileURL
	existing.ProfilePictureURL = employee.ProfilePictureURL
	existing.ScrapedAt = employee.ScrapedAt

	if err := db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *employeeRepo) UpsertMany(ctx context.Context, tx *gorm.DB, employees []*types.Employee) ([]*types.Employee, error) {
	if len(employees) == 0 {
		return []*types.Employee{}, nil
	}
	out := make([]*types.Employee, 0, len(employees))
	for _, employee := range employees {
		stored, err := r.Upsert(ctx, tx, employee)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *employeeRepo) GetByPageID(ctx context.Context, tx *gorm.DB, pageID string, skip, limit int) ([]*types.Employee, int64, error) {
	db := r.conn(tx).WithContext(ctx).Model(&types.Employee{}).Where("page_id = ?", pageID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Employee
	if err := db.
		Order("name ASC").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *employeeRepo) DeleteByPageID(ctx context.Context, tx *gorm.DB, pageID string) (int64, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("page_id = ?", pageID).
		Delete(&types.Employee{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
