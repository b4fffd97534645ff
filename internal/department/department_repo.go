package department

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dept *Department) error
	FindAllByCompany(ctx context.Context, companyID uint, isActive *bool) ([]Department, error)
	FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Department, error)
	ExistsByName(ctx context.Context, companyID uint, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, dept *Department) error
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

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID uint, isActive *bool) ([]Department, error) {
	var depts []Department
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	err := q.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uint) (*Department, error) {
	var dept Department
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&dept, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ExistsByName checks the per-tenant name constraint, ignoring excludeID.
func (r *repository) ExistsByName(ctx context.Context, companyID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&Department{}).
		Scopes(tenant.Scope(companyID)).
		Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}
