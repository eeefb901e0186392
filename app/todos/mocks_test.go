package todos

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

// --- Mock Repository ---

type MockTodoRepo struct {
	Todos []models.Todo
	Err   error

	lastCalledID uint
	Created      *models.Todo
	Saved        *models.Todo
	DeletedID    uint
}

func (m *MockTodoRepo) GetAllTodos() ([]models.Todo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Todos, nil
}

func (m *MockTodoRepo) GetByID(id uint) (*models.Todo, error) {
	m.lastCalledID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Todos {
		if t.ID == id {
			todo := t
			return &todo, nil
		}
	}
	return nil, models.ErrTodoNotFound
}

func (m *MockTodoRepo) CreateTodo(todo *models.Todo) error {
	if m.Err != nil {
		return m.Err
	}
	todo.ID = uint(len(m.Todos) + 1)
	todo.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	todo.UpdatedAt = todo.CreatedAt
	m.Created = todo
	m.Todos = append(m.Todos, *todo)
	return nil
}

func (m *MockTodoRepo) SaveTodo(todo *models.Todo) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Todos {
		if m.Todos[i].ID == todo.ID {
			m.Todos[i] = *todo
			m.Saved = todo
			return nil
		}
	}
	return models.ErrTodoNotFound
}

func (m *MockTodoRepo) ToggleTodo(id uint) (*models.Todo, error) {
	m.lastCalledID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Todos {
		if m.Todos[i].ID == id {
			m.Todos[i].Completed = !m.Todos[i].Completed
			todo := m.Todos[i]
			return &todo, nil
		}
	}
	return nil, models.ErrTodoNotFound
}

func (m *MockTodoRepo) DeleteTodo(id uint) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Todos {
		if m.Todos[i].ID == id {
			m.Todos = append(m.Todos[:i], m.Todos[i+1:]...)
			m.DeletedID = id
			return nil
		}
	}
	return models.ErrTodoNotFound
}

func sampleTodos() []models.Todo {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return []models.Todo{
		{ID: 1, Title: "Buy milk", Description: "2 litres", CreatedAt: created, UpdatedAt: created},
		{ID: 2, Title: "Write report", Completed: true, CreatedAt: created, UpdatedAt: created},
	}
}

func newTestRouter(repo TodoProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(web.LoadTemplates()))

	pages := NewTodoHandler(repo)
	both := []string{http.MethodGet, http.MethodPost}
	r.GET("/", pages.HandleList)
	r.Match(both, "/create/", pages.HandleCreate)
	r.Match(both, "/:id/update/", pages.HandleUpdate)
	r.Match(both, "/:id/delete/", pages.HandleDelete)
	r.Match(both, "/:id/toggle/", pages.HandleToggle)

	api := NewAPIHandler(repo)
	r.GET("/api/", api.HandleRoot)
	r.GET("/api/todos/", api.HandleList)
	r.POST("/api/todos/", api.HandleCreate)
	r.GET("/api/todos/:id/", api.HandleRetrieve)
	r.PUT("/api/todos/:id/", api.HandleUpdate)
	r.PATCH("/api/todos/:id/", api.HandleUpdate)
	r.DELETE("/api/todos/:id/", api.HandleDelete)
	r.POST("/api/todos/:id/toggle_complete/", api.HandleToggleComplete)
	return r
}
