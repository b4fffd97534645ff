package task

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *Task) error
	FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Task, error)
	FindAll(ctx context.Context, companyID uint, f ListFilter) ([]Task, int64, error)
	AssigneeExists(ctx context.Context, companyID, employeeID uint, activeOnly bool) (bool, error)
	Update(ctx context.Context, t *Task) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindAll(ctx context.Context, companyID uint, f ListFilter) ([]Task, int64, error) {
	filtered := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&Task{}).Scopes(tenant.Scope(companyID))
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		if f.Priority != nil {
			db = db.Where("priority = ?", *f.Priority)
		}
		if f.AssigneeID != nil {
			db = db.Where("assigned_to_employee_id = ?", *f.AssigneeID)
		}
		if f.OnlyMineEmployeeID != nil {
			db = db.Where("assigned_to_employee_id = ?", *f.OnlyMineEmployeeID)
		}
		return db
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []Task
	err := filtered().
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&tasks).Error
	return tasks, total, err
}

// AssigneeExists checks the employees table without importing the employee
// package.
func (r *repository) AssigneeExists(ctx context.Context, companyID, employeeID uint, activeOnly bool) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Table("employees").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", employeeID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}
