package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the availability state set on a product.
// It is not derived from Quantity; see StockStatus for that.
type ProductStatus string

const (
	StatusActive     ProductStatus = "active"
	StatusInactive   ProductStatus = "inactive"
	StatusOutOfStock ProductStatus = "out_of_stock"
)

// ProductStatuses lists the valid statuses in display order.
var ProductStatuses = []ProductStatus{StatusActive, StatusInactive, StatusOutOfStock}

// ParseProductStatus validates a raw status value.
func ParseProductStatus(s string) (ProductStatus, bool) {
	for _, st := range ProductStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Label returns the human-readable status name.
func (s ProductStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusOutOfStock:
		return "Out of Stock"
	}
	return string(s)
}

// LowStockThreshold is the quantity below which a product is reported as low stock.
const LowStockThreshold = 10

// Product represents a product in the catalog.
// It includes a unique SKU, a price, an optional category and stock information.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:200;not null;index"`
	Description string          `gorm:"type:text;not null"`
	CategoryID  *uint           `gorm:"index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	Status      ProductStatus   `gorm:"size:20;not null;default:active"`
	Image       string          `gorm:"size:255"`
	SKU         string          `gorm:"column:sku;size:100;uniqueIndex;not null"`
	IsFeatured  bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"index:idx_products_created_at,sort:desc"`
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) String() string {
	return p.Name
}

// IsInStock reports whether at least one unit is available.
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// StockStatus returns "Out of Stock", "Low Stock" or "In Stock" from the quantity.
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return "Out of Stock"
	case p.Quantity < LowStockThreshold:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// StatusLabel returns the label of the stored status.
func (p *Product) StatusLabel() string {
	return p.Status.Label()
}

// CategoryName returns the category's name or an empty string.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
