package models

import "errors"

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTodoNotFound is returned when a todo is not found.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("category with this name already exists")
	// ErrDuplicateSKU is returned when a product SKU is already taken.
	ErrDuplicateSKU = errors.New("product with this sku already exists")
)
