package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ProductFilters narrows a product listing. Zero values mean "no constraint";
// set filters are combined with AND.
type ProductFilters struct {
	// Search is matched case-insensitively against name, description and sku.
	Search       string
	CategoryID   *uint
	Status       string
	Featured     *bool
	CreatedSince *time.Time
}

// ListFields holds the product columns editable from the admin list view.
type ListFields struct {
	Status     *ProductStatus
	IsFeatured *bool
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) filtered(filters ProductFilters) *gorm.DB {
	query := r.db.Model(&Product{})

	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := likePattern(s)
		query = query.Where(
			"LOWER(products.name) LIKE ? ESCAPE '!' OR LOWER(products.description) LIKE ? ESCAPE '!' OR LOWER(products.sku) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}
	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.Status != "" {
		query = query.Where("products.status = ?", filters.Status)
	}
	if filters.Featured != nil {
		query = query.Where("products.is_featured = ?", *filters.Featured)
	}
	if filters.CreatedSince != nil {
		query = query.Where("products.created_at >= ?", *filters.CreatedSince)
	}

	return query
}

func (r *ProductsRepository) GetFilteredProducts(offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	// Count total after filtering
	if err := r.filtered(filters).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply pagination
	if err := r.filtered(filters).
		Preload("Category").
		Order("products.created_at DESC, products.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *ProductsRepository) GetByCategory(categoryID uint) ([]Product, error) {
	var products []Product
	if err := r.db.
		Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

func (r *ProductsRepository) GetFeaturedProducts(limit int) ([]Product, error) {
	var products []Product
	if err := r.db.
		Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find featured products: %w", err)
	}
	return products, nil
}

func (r *ProductsRepository) GetRecentProducts(limit int) ([]Product, error) {
	var products []Product
	if err := r.db.
		Preload("Category").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent products: %w", err)
	}
	return products, nil
}

func (r *ProductsRepository) CountProducts() (int64, error) {
	var total int64
	if err := r.db.Model(&Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (r *ProductsRepository) CreateProduct(product *Product) error {
	if err := r.db.Omit("Category").Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites every editable column, zero values included.
func (r *ProductsRepository) UpdateProduct(product *Product) error {
	result := r.db.Model(&Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "category_id", "price", "quantity", "status", "image", "sku", "is_featured", "updated_at").
		Updates(product)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateListFields applies the non-nil fields and returns the reloaded product.
func (r *ProductsRepository) UpdateListFields(id uint, fields ListFields) (*Product, error) {
	updates := map[string]any{}
	if fields.Status != nil {
		updates["status"] = *fields.Status
	}
	if fields.IsFeatured != nil {
		updates["is_featured"] = *fields.IsFeatured
	}

	if len(updates) > 0 {
		result := r.db.Model(&Product{}).Where("id = ?", id).Updates(updates)
		if err := result.Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		if result.RowsAffected == 0 {
			return nil, ErrProductNotFound
		}
	}

	return r.GetByID(id)
}

func (r *ProductsRepository) DeleteProduct(id uint) error {
	result := r.db.Delete(&Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// likePattern lower-cases s and escapes LIKE wildcards with '!'.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
	return "%" + s + "%"
}
