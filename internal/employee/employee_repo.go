package employee

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAllByCompany(ctx context.Context, companyID uint, q ListEmployeesQuery) ([]Employee, int64, error)
	FindOptionsByCompany(ctx context.Context, companyID uint) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Employee, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	DepartmentExists(ctx context.Context, companyID, departmentID uint) (bool, error)
	Update(ctx context.Context, emp *Employee) error
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

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID uint, q ListEmployeesQuery) ([]Employee, int64, error) {
	filtered := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&Employee{}).Scopes(tenant.Scope(companyID))
		if q.IsActive != nil {
			db = db.Where("is_active = ?", *q.IsActive)
		}
		return db
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emps []Employee
	err := filtered().
		Order("id ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&emps).Error
	return emps, total, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID uint) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Select("id", "code", "first_name", "last_name").
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ExistsByCode checks the global code space.
func (r *repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks the global email space, ignoring excludeID.
func (r *repository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Employee{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) DepartmentExists(ctx context.Context, companyID, departmentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}
