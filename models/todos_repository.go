package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type TodosRepository struct {
	db *gorm.DB
}

type TodoFilters struct {
	Search       string
	Completed    *bool
	CreatedSince *time.Time
}

func NewTodosRepository(db *gorm.DB) *TodosRepository {
	return &TodosRepository{db: db}
}

func (r *TodosRepository) GetAllTodos() ([]Todo, error) {
	return r.SearchTodos(TodoFilters{})
}

func (r *TodosRepository) SearchTodos(filters TodoFilters) ([]Todo, error) {
	query := r.db.Model(&Todo{})
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := likePattern(s)
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if filters.Completed != nil {
		query = query.Where("completed = ?", *filters.Completed)
	}
	if filters.CreatedSince != nil {
		query = query.Where("created_at >= ?", *filters.CreatedSince)
	}

	var todos []Todo
	if err := query.Order("created_at DESC, id DESC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}
	return todos, nil
}

func (r *TodosRepository) GetByID(id uint) (*Todo, error) {
	var todo Todo
	if err := r.db.First(&todo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &todo, nil
}

func (r *TodosRepository) CreateTodo(todo *Todo) error {
	if err := r.db.Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// SaveTodo writes title, description and completed, zero values included.
func (r *TodosRepository) SaveTodo(todo *Todo) error {
	result := r.db.Model(&Todo{}).
		Where("id = ?", todo.ID).
		Select("title", "description", "completed", "updated_at").
		Updates(todo)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// ToggleTodo inverts completed in a single statement and returns the updated row.
func (r *TodosRepository) ToggleTodo(id uint) (*Todo, error) {
	result := r.db.Model(&Todo{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed":  gorm.Expr("NOT completed"),
			"updated_at": time.Now(),
		})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTodoNotFound
	}
	return r.GetByID(id)
}

func (r *TodosRepository) DeleteTodo(id uint) error {
	result := r.db.Delete(&Todo{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
