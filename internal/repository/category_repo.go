package repository

import (
	"context"
	"errors"

	"go-wigstore-api/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (*model.Category, error)
	SeedDefaults(ctx context.Context) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// SeedDefaults inserts any missing entry of model.DefaultCategories.
func (r *categoryRepo) SeedDefaults(ctx context.Context) error {
	for _, c := range model.DefaultCategories {
		var existing model.Category
		err := r.db.WithContext(ctx).Where("id = ?", c.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
