package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/admin"
	"github.com/shopboard/shopboard/app/catalog"
	"github.com/shopboard/shopboard/app/categories"
	"github.com/shopboard/shopboard/app/todos"
	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	SessionSecret string
	MediaDir      string

	Categories *models.CategoriesRepository
	Products   *models.ProductsRepository
	Todos      *models.TodosRepository
	Images     catalog.ImageStore

	// Admin is nil when no admin credentials are configured.
	Admin  *admin.AdminHandler
	Tokens *admin.JWTManager
}

// NewRouter assembles the engine serving both slices.
func NewRouter(deps Deps) (*gin.Engine, error) {
	tmpl, err := web.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), web.Sessions(deps.SessionSecret))
	r.SetHTMLTemplate(tmpl)
	r.HandleMethodNotAllowed = true
	r.NoRoute(noRoute)
	r.NoMethod(noMethod)

	if deps.MediaDir != "" {
		r.Static("/media", deps.MediaDir)
	}

	both := []string{http.MethodGet, http.MethodPost}

	catalogHandler := catalog.NewCatalogHandler(deps.Products, deps.Categories, deps.Images)
	r.GET("/catalog/", catalogHandler.HandleHome)
	r.GET("/products/", catalogHandler.HandleList)
	r.Match(both, "/products/create/", catalogHandler.HandleCreate)
	r.GET("/products/:id/", catalogHandler.HandleDetail)
	r.Match(both, "/products/:id/update/", catalogHandler.HandleUpdate)
	r.Match(both, "/products/:id/delete/", catalogHandler.HandleDelete)

	categoryHandler := categories.NewCategoryHandler(deps.Categories, deps.Products)
	r.GET("/categories/", categoryHandler.HandleList)
	r.Match(both, "/categories/create/", categoryHandler.HandleCreate)
	r.GET("/categories/:id/", categoryHandler.HandleDetail)
	r.Match(both, "/categories/:id/update/", categoryHandler.HandleUpdate)
	r.Match(both, "/categories/:id/delete/", categoryHandler.HandleDelete)

	todoHandler := todos.NewTodoHandler(deps.Todos)
	r.GET("/", todoHandler.HandleList)
	r.Match(both, "/create/", todoHandler.HandleCreate)
	r.Match(both, "/:id/update/", todoHandler.HandleUpdate)
	r.Match(both, "/:id/delete/", todoHandler.HandleDelete)
	r.Match(both, "/:id/toggle/", todoHandler.HandleToggle)

	api := todos.NewAPIHandler(deps.Todos)
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/", api.HandleRoot)
		apiGroup.GET("/todos/", api.HandleList)
		apiGroup.POST("/todos/", api.HandleCreate)
		apiGroup.GET("/todos/:id/", api.HandleRetrieve)
		apiGroup.PUT("/todos/:id/", api.HandleUpdate)
		apiGroup.PATCH("/todos/:id/", api.HandleUpdate)
		apiGroup.DELETE("/todos/:id/", api.HandleDelete)
		apiGroup.POST("/todos/:id/toggle_complete/", api.HandleToggleComplete)
	}

	if deps.Admin != nil {
		r.POST("/admin/login/", deps.Admin.HandleLogin)
		adminGroup := r.Group("/admin", admin.AuthMiddleware(deps.Tokens))
		{
			adminGroup.GET("/categories/", deps.Admin.HandleCategories)
			adminGroup.GET("/categories/:id/", deps.Admin.HandleCategory)
			adminGroup.GET("/products/", deps.Admin.HandleProducts)
			adminGroup.GET("/products/:id/", deps.Admin.HandleProduct)
			adminGroup.PATCH("/products/:id/", deps.Admin.HandlePatchProduct)
			adminGroup.GET("/todos/", deps.Admin.HandleTodos)
			adminGroup.PATCH("/todos/:id/", deps.Admin.HandlePatchTodo)
		}
	}

	return r, nil
}

func isJSONPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/admin/")
}

func noRoute(c *gin.Context) {
	if isJSONPath(c.Request.URL.Path) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	web.NotFound(c, "")
}

func noMethod(c *gin.Context) {
	if isJSONPath(c.Request.URL.Path) {
		todos.MethodNotAllowed(c)
		return
	}
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}
