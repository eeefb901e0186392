package todos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

// TodoResponse is the JSON representation of a todo.
type TodoResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewTodoResponse(t *models.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// todoPayload holds the writable fields of a request body.
// id, created_at and updated_at are read-only and ignored.
type todoPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type titleField struct {
	Title string `validate:"min=1,max=200"`
}

// apiErrors maps a field to its messages, or "detail" to a single message.
type apiErrors map[string][]string

var errNotFound = gin.H{"detail": "Not found."}

type APIHandler struct {
	repo TodoProvider
}

func NewAPIHandler(r TodoProvider) *APIHandler {
	return &APIHandler{repo: r}
}

// HandleRoot lists the resources of the API.
func (h *APIHandler) HandleRoot(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"todos": fmt.Sprintf("%s://%s/api/todos/", scheme, c.Request.Host),
	})
}

func (h *APIHandler) HandleList(c *gin.Context) {
	todos, err := h.repo.GetAllTodos()
	if err != nil {
		serverError(c, err)
		return
	}

	response := make([]TodoResponse, len(todos))
	for i := range todos {
		response[i] = NewTodoResponse(&todos[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *APIHandler) HandleCreate(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	todo := &models.Todo{}
	if errs := applyPayload(todo, payload, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if err := h.repo.CreateTodo(todo); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewTodoResponse(todo))
}

func (h *APIHandler) HandleRetrieve(c *gin.Context) {
	todo, ok := h.loadTodo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewTodoResponse(todo))
}

// HandleUpdate serves PUT (full update) and PATCH (partial update).
func (h *APIHandler) HandleUpdate(c *gin.Context) {
	todo, ok := h.loadTodo(c)
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	if errs := applyPayload(todo, payload, partial); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if err := h.repo.SaveTodo(todo); err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, errNotFound)
			return
		}
		serverError(c, err)
		return
	}

	saved, err := h.repo.GetByID(todo.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTodoResponse(saved))
}

func (h *APIHandler) HandleDelete(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, errNotFound)
		return
	}
	if err := h.repo.DeleteTodo(id); err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, errNotFound)
			return
		}
		serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleToggleComplete inverts completed and returns the updated todo.
func (h *APIHandler) HandleToggleComplete(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, errNotFound)
		return
	}
	todo, err := h.repo.ToggleTodo(id)
	if err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, errNotFound)
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTodoResponse(todo))
}

// MethodNotAllowed answers verbs a resource does not support.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"detail": fmt.Sprintf("Method \"%s\" not allowed.", c.Request.Method),
	})
}

func (h *APIHandler) loadTodo(c *gin.Context) (*models.Todo, bool) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, errNotFound)
		return nil, false
	}
	todo, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, errNotFound)
			return nil, false
		}
		serverError(c, err)
		return nil, false
	}
	return todo, true
}

// bindPayload decodes the JSON body. An empty body is an empty object.
func bindPayload(c *gin.Context) (todoPayload, bool) {
	var payload todoPayload

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to read request body."})
		return payload, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return payload, true
	}

	if err := binding.JSON.BindBody(body, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			c.JSON(http.StatusBadRequest, typeError(typeErr))
			return payload, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return payload, false
	}
	return payload, true
}

func typeError(err *json.UnmarshalTypeError) apiErrors {
	switch err.Field {
	case "":
		return apiErrors{"non_field_errors": {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", err.Value)}}
	case "completed":
		return apiErrors{"completed": {"Must be a valid boolean."}}
	}
	return apiErrors{err.Field: {"Not a valid string."}}
}

// applyPayload validates p and copies it onto todo. A full update resets
// omitted optional fields; a partial one leaves them untouched.
func applyPayload(todo *models.Todo, p todoPayload, partial bool) apiErrors {
	errs := apiErrors{}

	switch {
	case p.Title != nil:
		title := titleField{Title: strings.TrimSpace(*p.Title)}
		if fieldErrs := web.Validate(title); fieldErrs.Any() {
			errs["title"] = []string{fieldErrs["title"]}
		} else {
			todo.Title = title.Title
		}
	case !partial:
		errs["title"] = []string{web.MsgRequired}
	}
	if len(errs) > 0 {
		return errs
	}

	if p.Description != nil {
		todo.Description = *p.Description
	} else if !partial {
		todo.Description = ""
	}
	if p.Completed != nil {
		todo.Completed = *p.Completed
	} else if !partial {
		todo.Completed = false
	}
	return nil
}

func serverError(c *gin.Context, err error) {
	log.Printf("ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
