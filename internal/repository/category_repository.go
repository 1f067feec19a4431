package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"cli-utils/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns system categories first, then the rest by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("is_system DESC, name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns nil when the category does not exist.
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

func (r *CategoryRepository) Create(ctx context.Context, name, icon, description string) (uint, error) {
	name = strings.TrimSpace(name)
	if err := validateName("category name", name); err != nil {
		return 0, err
	}
	if strings.TrimSpace(icon) == "" {
		icon = model.DefaultCategoryIcon
	}

	category := model.Category{Name: name, Icon: icon, Description: description}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return 0, storeErr("create category", "categories", err)
	}
	return category.ID, nil
}

// Update changes a user category. System categories are left untouched and
// no error is reported for them.
func (r *CategoryRepository) Update(ctx context.Context, id uint, name, icon, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName("category name", name); err != nil {
		return err
	}
	if strings.TrimSpace(icon) == "" {
		icon = model.DefaultCategoryIcon
	}

	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND is_system = ?", id, false).
		Updates(map[string]interface{}{
			"name":        name,
			"icon":        icon,
			"description": description,
		}).Error
	return storeErr("update category", "categories", err)
}

// Delete removes a user category after moving its tasks to the first system
// category. Deleting a system or unknown category does nothing.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target []model.Category
		if err := tx.Where("id = ? AND is_system = ?", id, false).Limit(1).Find(&target).Error; err != nil {
			return err
		}
		if len(target) == 0 {
			return nil
		}

		var fallback model.Category
		if err := tx.Where("is_system = ?", true).Order("id ASC").First(&fallback).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("no system category to receive tasks")
			}
			return err
		}

		if err := tx.Model(&model.Task{}).Where("category_id = ?", id).
			Update("category_id", fallback.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
	return storeErr("delete category", "categories", err)
}

// CountTasks counts the tasks in a category, optionally ignoring completed ones.
func (r *CategoryRepository) CountTasks(ctx context.Context, id uint, excludeCompleted bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("category_id = ?", id)
	if excludeCompleted {
		query = query.Where("status <> ?", model.StatusCompleted)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count category tasks: %w", err)
	}
	return count, nil
}
