package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

const PerPage = 25

type CategoryStore interface {
	GetPagedCategories(offset, limit int, filters models.CategoryFilters) ([]models.Category, int64, error)
	GetByID(id uint) (*models.Category, error)
}

type ProductStore interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	UpdateListFields(id uint, fields models.ListFields) (*models.Product, error)
}

type TodoStore interface {
	SearchTodos(filters models.TodoFilters) ([]models.Todo, error)
	GetByID(id uint) (*models.Todo, error)
	SaveTodo(todo *models.Todo) error
}

type AdminHandler struct {
	categories  CategoryStore
	products    ProductStore
	todos       TodoStore
	credentials *Credentials
	tokens      *JWTManager
	now         func() time.Time
}

func NewAdminHandler(categories CategoryStore, products ProductStore, todos TodoStore, credentials *Credentials, tokens *JWTManager) *AdminHandler {
	return &AdminHandler{
		categories:  categories,
		products:    products,
		todos:       todos,
		credentials: credentials,
		tokens:      tokens,
		now:         time.Now,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": web.ValidationErrors(err)})
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		log.Printf("WARNING: failed admin login for %q from %s", req.Username, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(req.Username)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   h.tokens.TTLSeconds(),
	})
}

// --- Categories ---

type categoryRow struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryRow(cat *models.Category) categoryRow {
	return categoryRow{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
}

func (h *AdminHandler) HandleCategories(c *gin.Context) {
	since, err := createdSince(c.Query("created"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filters := models.CategoryFilters{Search: c.Query("q"), CreatedSince: since}

	categories, page, err := web.Paginate(c, PerPage, func(offset, limit int) ([]models.Category, int64, error) {
		return h.categories.GetPagedCategories(offset, limit, filters)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	rows := make([]categoryRow, len(categories))
	for i := range categories {
		rows[i] = newCategoryRow(&categories[i])
	}
	c.JSON(http.StatusOK, pageResponse(page, rows))
}

func (h *AdminHandler) HandleCategory(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}
	category, err := h.categories.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			notFound(c)
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":        newCategoryRow(category),
		"readonly_fields": []string{"created_at", "updated_at"},
	})
}

// --- Products ---

type productRow struct {
	ID         uint                 `json:"id"`
	Name       string               `json:"name"`
	Category   *string              `json:"category"`
	Price      string               `json:"price"`
	Quantity   int                  `json:"quantity"`
	Status     models.ProductStatus `json:"status"`
	IsFeatured bool                 `json:"is_featured"`
	CreatedAt  time.Time            `json:"created_at"`
}

func newProductRow(p *models.Product) productRow {
	row := productRow{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		Quantity:   p.Quantity,
		Status:     p.Status,
		IsFeatured: p.IsFeatured,
		CreatedAt:  p.CreatedAt,
	}
	if p.Category != nil {
		name := p.Category.Name
		row.Category = &name
	}
	return row
}

type fieldset struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

func productFieldsets(p *models.Product) []fieldset {
	var category any
	if p.Category != nil {
		category = gin.H{"id": p.Category.ID, "name": p.Category.Name}
	}
	return []fieldset{
		{Name: "Basic Information", Fields: map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"category":    category,
			"sku":         p.SKU,
		}},
		{Name: "Pricing & Inventory", Fields: map[string]any{
			"price":    p.Price.StringFixed(2),
			"quantity": p.Quantity,
			"status":   p.Status,
		}},
		{Name: "Media", Fields: map[string]any{
			"image": p.Image,
		}},
		{Name: "Additional Options", Fields: map[string]any{
			"is_featured": p.IsFeatured,
		}},
		{Name: "Timestamps", Fields: map[string]any{
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
		}},
	}
}

func (h *AdminHandler) HandleProducts(c *gin.Context) {
	filters := models.ProductFilters{Search: c.Query("q")}

	if status := c.Query("status"); status != "" {
		if _, ok := models.ParseProductStatus(status); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status filter %q", status)})
			return
		}
		filters.Status = status
	}

	var err error
	if filters.CategoryID, err = queryID(c, "category"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filters.Featured, err = queryBool(c, "is_featured"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filters.CreatedSince, err = createdSince(c.Query("created"), h.now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, page, err := web.Paginate(c, PerPage, func(offset, limit int) ([]models.Product, int64, error) {
		return h.products.GetFilteredProducts(offset, limit, filters)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	rows := make([]productRow, len(products))
	for i := range products {
		rows[i] = newProductRow(&products[i])
	}
	c.JSON(http.StatusOK, pageResponse(page, rows))
}

func (h *AdminHandler) HandleProduct(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}
	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c)
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              product.ID,
		"fieldsets":       productFieldsets(product),
		"readonly_fields": []string{"created_at", "updated_at"},
	})
}

// HandlePatchProduct applies an inline edit of status and is_featured.
func (h *AdminHandler) HandlePatchProduct(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}
	body, ok := bindEditable(c, "status", "is_featured")
	if !ok {
		return
	}

	var fields models.ListFields
	if raw, found := body["status"]; found {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be a string"})
			return
		}
		status, valid := models.ParseProductStatus(s)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status %q", s)})
			return
		}
		fields.Status = &status
	}
	if raw, found := body["is_featured"]; found {
		var featured bool
		if err := json.Unmarshal(raw, &featured); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_featured must be a boolean"})
			return
		}
		fields.IsFeatured = &featured
	}

	product, err := h.products.UpdateListFields(id, fields)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c)
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductRow(product))
}

// --- Todos ---

type todoRow struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTodoRow(t *models.Todo) todoRow {
	return todoRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *AdminHandler) HandleTodos(c *gin.Context) {
	filters := models.TodoFilters{Search: c.Query("q")}

	var err error
	if filters.Completed, err = queryBool(c, "completed"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filters.CreatedSince, err = createdSince(c.Query("created"), h.now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todos, err := h.todos.SearchTodos(filters)
	if err != nil {
		serverError(c, err)
		return
	}

	rows := make([]todoRow, len(todos))
	for i := range todos {
		rows[i] = newTodoRow(&todos[i])
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "results": rows})
}

// HandlePatchTodo applies an inline edit of completed.
func (h *AdminHandler) HandlePatchTodo(c *gin.Context) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}
	body, ok := bindEditable(c, "completed")
	if !ok {
		return
	}

	todo, err := h.todos.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrTodoNotFound) {
			notFound(c)
			return
		}
		serverError(c, err)
		return
	}

	if raw, found := body["completed"]; found {
		if err := json.Unmarshal(raw, &todo.Completed); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be a boolean"})
			return
		}
		if err := h.todos.SaveTodo(todo); err != nil {
			serverError(c, err)
			return
		}
		if todo, err = h.todos.GetByID(id); err != nil {
			serverError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, newTodoRow(todo))
}

// bindEditable decodes a JSON object and rejects keys outside editable.
func bindEditable(c *gin.Context, editable ...string) (map[string]json.RawMessage, bool) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON parse error - " + err.Error()})
		return nil, false
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if !slices.Contains(editable, k) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("field %s is read-only", k)})
			return nil, false
		}
	}
	return body, true
}

func pageResponse[T any](page web.Page, results []T) gin.H {
	return gin.H{
		"count":     page.Total,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"results":   results,
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func serverError(c *gin.Context, err error) {
	log.Printf("ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
