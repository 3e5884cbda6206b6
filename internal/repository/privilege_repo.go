package repository

import (
	"context"
	"errors"

	"go-wigstore-api/internal/model"

	"gorm.io/gorm"
)

type PrivilegeRepository interface {
	FindAll(ctx context.Context) ([]model.Privilege, error)
	SeedDefaults(ctx context.Context) error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindAll(ctx context.Context) ([]model.Privilege, error) {
	var privileges []model.Privilege
	if err := r.db.WithContext(ctx).Find(&privileges).Error; err != nil {
		return nil, err
	}
	return privileges, nil
}

// SeedDefaults creates default privileges if they don't exist
func (r *privilegeRepo) SeedDefaults(ctx context.Context) error {
	for _, p := range model.DefaultPrivileges {
		var existing model.Privilege
		err := r.db.WithContext(ctx).Where("code = ?", p.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
