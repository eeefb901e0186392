package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopboard/shopboard/config"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(config.DBConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = Close(db) })

	return db
}

func newTestProduct(name, sku string, price string, quantity int, categoryID *uint) *Product {
	return &Product{
		Name:        name,
		Description: name + " description",
		CategoryID:  categoryID,
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		Status:      StatusActive,
		SKU:         sku,
	}
}
