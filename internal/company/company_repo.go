package company

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uint) (*Company, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	LatestCode(ctx context.Context) (string, error)
	Update(ctx context.Context, company *Company) error
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

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Company, error) {
	var company Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Company{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Company{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// LatestCode returns the code of the most recently inserted company, or ""
// when there is none.
func (r *repository) LatestCode(ctx context.Context) (string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&Company{}).
		Order("id DESC").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil || len(codes) == 0 {
		return "", err
	}
	return codes[0], nil
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}
