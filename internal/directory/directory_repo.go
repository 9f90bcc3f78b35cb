package directory

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	FindByRole(ctx context.Context, role string) ([]Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByRole(ctx context.Context, role string) ([]Account, error) {
	var accounts []Account
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("email ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).
		First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}
