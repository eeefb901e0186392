package models

import "time"

// TodoTitleMaxLength bounds Todo.Title.
const TodoTitleMaxLength = 200

// Todo is a single entry of the todo list.
type Todo struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Completed   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) TableName() string {
	return "todos"
}

func (t *Todo) String() string {
	return t.Title
}
