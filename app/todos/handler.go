package todos

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

const MsgTitleRequired = "Title is required."

type TodoProvider interface {
	GetAllTodos() ([]models.Todo, error)
	GetByID(id uint) (*models.Todo, error)
	CreateTodo(todo *models.Todo) error
	SaveTodo(todo *models.Todo) error
	ToggleTodo(id uint) (*models.Todo, error)
	DeleteTodo(id uint) error
}

// TodoForm carries the raw values posted by the todo form.
// Completed follows the checkbox convention: "on" when ticked.
type TodoForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description"`
	Completed   string `form:"completed"`
}

func (f *TodoForm) clean() web.FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	errs := web.Validate(f)
	if f.Title == "" {
		errs["title"] = MsgTitleRequired
	}
	return errs
}

type TodoHandler struct {
	repo TodoProvider
}

func NewTodoHandler(r TodoProvider) *TodoHandler {
	return &TodoHandler{repo: r}
}

func (h *TodoHandler) HandleList(c *gin.Context) {
	todos, err := h.repo.GetAllTodos()
	if err != nil {
		web.ServerError(c, err)
		return
	}
	web.HTML(c, http.StatusOK, "todo_list.html", gin.H{
		"title": "Todos",
		"todos": todos,
	})
}

func (h *TodoHandler) HandleCreate(c *gin.Context) {
	data := gin.H{
		"title":        "New Todo",
		"action_label": "Create",
		"action":       "/create/",
	}
	if c.Request.Method != http.MethodPost {
		renderForm(c, data, TodoForm{}, web.FieldErrors{})
		return
	}

	var form TodoForm
	if err := c.ShouldBind(&form); err != nil {
		renderForm(c, data, form, web.ValidationErrors(err))
		return
	}
	if errs := form.clean(); errs.Any() {
		renderForm(c, data, form, errs)
		return
	}

	todo := &models.Todo{Title: form.Title, Description: form.Description}
	if err := h.repo.CreateTodo(todo); err != nil {
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *TodoHandler) HandleUpdate(c *gin.Context) {
	todo, ok := h.loadTodo(c)
	if !ok {
		return
	}

	data := gin.H{
		"title":        "Edit Todo",
		"action_label": "Update",
		"action":       fmt.Sprintf("/%d/update/", todo.ID),
		"todo":         todo,
	}
	if c.Request.Method != http.MethodPost {
		form := TodoForm{Title: todo.Title, Description: todo.Description}
		if todo.Completed {
			form.Completed = "on"
		}
		renderForm(c, data, form, web.FieldErrors{})
		return
	}

	var form TodoForm
	if err := c.ShouldBind(&form); err != nil {
		renderForm(c, data, form, web.ValidationErrors(err))
		return
	}
	if errs := form.clean(); errs.Any() {
		renderForm(c, data, form, errs)
		return
	}

	todo.Title = form.Title
	todo.Description = form.Description
	todo.Completed = form.Completed == "on"
	if err := h.repo.SaveTodo(todo); err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			web.NotFound(c, "Todo not found.")
			return
		}
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *TodoHandler) HandleDelete(c *gin.Context) {
	todo, ok := h.loadTodo(c)
	if !ok {
		return
	}
	if c.Request.Method != http.MethodPost {
		web.HTML(c, http.StatusOK, "todo_confirm_delete.html", gin.H{
			"title": "Delete Todo",
			"todo":  todo,
		})
		return
	}

	if err := h.repo.DeleteTodo(todo.ID); err != nil && !errors.Is(err, models.ErrTodoNotFound) {
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// HandleToggle flips completed without confirmation.
func (h *TodoHandler) HandleToggle(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		web.NotFound(c, "Todo not found.")
		return
	}
	if _, err := h.repo.ToggleTodo(id); err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			web.NotFound(c, "Todo not found.")
			return
		}
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *TodoHandler) loadTodo(c *gin.Context) (*models.Todo, bool) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		web.NotFound(c, "Todo not found.")
		return nil, false
	}
	todo, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			web.NotFound(c, "Todo not found.")
			return nil, false
		}
		web.ServerError(c, err)
		return nil, false
	}
	return todo, true
}

func renderForm(c *gin.Context, data gin.H, form TodoForm, errs web.FieldErrors) {
	data["form"] = form
	data["errors"] = errs
	web.HTML(c, http.StatusOK, "todo_form.html", data)
}
