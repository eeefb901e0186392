package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

type CategoryFilters struct {
	// Search is matched case-insensitively against name and description.
	Search       string
	CreatedSince *time.Time
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetPagedCategories(offset, limit int, filters CategoryFilters) ([]Category, int64, error) {
	var categories []Category
	var total int64

	query := func() *gorm.DB {
		q := r.db.Model(&Category{})
		if s := strings.TrimSpace(filters.Search); s != "" {
			pattern := likePattern(s)
			q = q.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
		}
		if filters.CreatedSince != nil {
			q = q.Where("created_at >= ?", *filters.CreatedSince)
		}
		return q
	}

	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if err := query().Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find categories: %w", err)
	}

	return categories, total, nil
}

func (r *CategoriesRepository) GetByID(id uint) (*Category, error) {
	var category Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (r *CategoriesRepository) CountCategories() (int64, error) {
	var total int64
	if err := r.db.Model(&Category{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}

func (r *CategoriesRepository) CreateCategory(category *Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoriesRepository) UpdateCategory(category *Category) error {
	result := r.db.Model(&Category{}).
		Where("id = ?", category.ID).
		Select("name", "description", "updated_at").
		Updates(category)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category. Products that referenced it are kept
// with their category cleared.
func (r *CategoriesRepository) DeleteCategory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}

		result := tx.Delete(&Category{}, "id = ?", id)
		if err := result.Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}
