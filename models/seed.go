package models

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed_data.yaml
var seedData []byte

type seedCatalog struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Products    []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Quantity    int    `yaml:"quantity"`
	SKU         string `yaml:"sku"`
	Status      string `yaml:"status"`
	Featured    bool   `yaml:"featured"`
}

// SeedResult reports the row counts after seeding.
type SeedResult struct {
	Categories int64
	Products   int64
}

func loadSeedCatalog() (*seedCatalog, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(seedData, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &catalog, nil
}

// Seed replaces every product and category with the sample catalog.
// Progress lines are written to out. Running it again yields the same rows.
func Seed(db *gorm.DB, out io.Writer) (SeedResult, error) {
	catalog, err := loadSeedCatalog()
	if err != nil {
		return SeedResult{}, err
	}

	var result SeedResult
	err = db.Transaction(func(tx *gorm.DB) error {
		fmt.Fprintln(out, "Clearing existing data...")
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Category{}).Error; err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}

		fmt.Fprintln(out, "Creating categories...")
		categories := make([]*Category, len(catalog.Categories))
		for i, c := range catalog.Categories {
			category := &Category{Name: c.Name, Description: c.Description}
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", c.Name, err)
			}
			categories[i] = category
			fmt.Fprintf(out, "  ✓ Created category: %s\n", category.Name)
		}

		fmt.Fprintln(out, "Creating products...")
		for i, c := range catalog.Categories {
			for _, p := range c.Products {
				product, err := p.toProduct(categories[i].ID)
				if err != nil {
					return err
				}
				if err := tx.Omit("Category").Create(product).Error; err != nil {
					return fmt.Errorf("failed to create product %q: %w", p.Name, err)
				}
				fmt.Fprintf(out, "  ✓ Created product: %s\n", product.Name)
			}
		}

		if err := tx.Model(&Category{}).Count(&result.Categories).Error; err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		if err := tx.Model(&Product{}).Count(&result.Products).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✅ Successfully created:")
	fmt.Fprintf(out, "   - %d categories\n", result.Categories)
	fmt.Fprintf(out, "   - %d products\n", result.Products)
	return result, nil
}

func (p seedProduct) toProduct(categoryID uint) (*Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price for %q: %w", p.Name, err)
	}

	status := StatusActive
	if p.Status != "" {
		st, ok := ParseProductStatus(p.Status)
		if !ok {
			return nil, fmt.Errorf("invalid status %q for %q", p.Status, p.Name)
		}
		status = st
	} else if p.Quantity == 0 {
		status = StatusOutOfStock
	}

	return &Product{
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  &categoryID,
		Price:       price,
		Quantity:    p.Quantity,
		Status:      status,
		SKU:         p.SKU,
		IsFeatured:  p.Featured,
	}, nil
}
