package categories

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

const (
	CategoriesPerPage = 10

	MsgDuplicateName = "Category with this Name already exists."
)

type CategoryProvider interface {
	GetPagedCategories(offset, limit int, filters models.CategoryFilters) ([]models.Category, int64, error)
	GetByID(id uint) (*models.Category, error)
	CreateCategory(category *models.Category) error
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint) error
}

// ProductLister lists the products filed under a category.
type ProductLister interface {
	GetByCategory(categoryID uint) ([]models.Product, error)
}

// CategoryForm carries the raw values posted by the category form.
type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description"`
}

func (f *CategoryForm) clean() web.FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	return web.Validate(f)
}

type CategoryHandler struct {
	repo     CategoryProvider
	products ProductLister
}

func NewCategoryHandler(r CategoryProvider, products ProductLister) *CategoryHandler {
	return &CategoryHandler{repo: r, products: products}
}

func (h *CategoryHandler) HandleList(c *gin.Context) {
	categories, page, err := web.Paginate(c, CategoriesPerPage, func(offset, limit int) ([]models.Category, int64, error) {
		return h.repo.GetPagedCategories(offset, limit, models.CategoryFilters{})
	})
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.HTML(c, http.StatusOK, "category_list.html", gin.H{
		"title":      "Categories",
		"categories": categories,
		"page":       page,
		"query":      c.Request.URL.Query(),
	})
}

func (h *CategoryHandler) HandleDetail(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}
	products, err := h.products.GetByCategory(category.ID)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.HTML(c, http.StatusOK, "category_detail.html", gin.H{
		"title":    category.Name,
		"category": category,
		"products": products,
	})
}

func (h *CategoryHandler) HandleCreate(c *gin.Context) {
	data := gin.H{
		"title":       "Add New Category",
		"form_title":  "Add New Category",
		"button_text": "Create Category",
		"action":      "/categories/create/",
	}
	if c.Request.Method != http.MethodPost {
		renderForm(c, data, CategoryForm{}, web.FieldErrors{})
		return
	}

	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		renderForm(c, data, form, web.ValidationErrors(err))
		return
	}
	if errs := form.clean(); errs.Any() {
		renderForm(c, data, form, errs)
		return
	}

	category := &models.Category{Name: form.Name, Description: form.Description}
	if err := h.repo.CreateCategory(category); err != nil {
		if errors.Is(err, models.ErrDuplicateName) {
			renderForm(c, data, form, web.FieldErrors{"name": MsgDuplicateName})
			return
		}
		web.ServerError(c, err)
		return
	}

	web.Flash(c, fmt.Sprintf("Category '%s' was created successfully!", category.Name))
	c.Redirect(http.StatusFound, "/categories/")
}

func (h *CategoryHandler) HandleUpdate(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}

	data := gin.H{
		"title":       "Edit Category",
		"form_title":  "Edit Category",
		"button_text": "Update Category",
		"action":      fmt.Sprintf("/categories/%d/update/", category.ID),
	}
	if c.Request.Method != http.MethodPost {
		renderForm(c, data, CategoryForm{Name: category.Name, Description: category.Description}, web.FieldErrors{})
		return
	}

	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		renderForm(c, data, form, web.ValidationErrors(err))
		return
	}
	if errs := form.clean(); errs.Any() {
		renderForm(c, data, form, errs)
		return
	}

	category.Name = form.Name
	category.Description = form.Description
	if err := h.repo.UpdateCategory(category); err != nil {
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			web.NotFound(c, "Category not found.")
		case errors.Is(err, models.ErrDuplicateName):
			renderForm(c, data, form, web.FieldErrors{"name": MsgDuplicateName})
		default:
			web.ServerError(c, err)
		}
		return
	}

	web.Flash(c, fmt.Sprintf("Category '%s' was updated successfully!", category.Name))
	c.Redirect(http.StatusFound, "/categories/")
}

func (h *CategoryHandler) HandleDelete(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}
	if c.Request.Method != http.MethodPost {
		products, err := h.products.GetByCategory(category.ID)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		web.HTML(c, http.StatusOK, "category_confirm_delete.html", gin.H{
			"title":         "Delete " + category.Name,
			"category":      category,
			"product_count": len(products),
		})
		return
	}

	if err := h.repo.DeleteCategory(category.ID); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			web.NotFound(c, "Category not found.")
			return
		}
		web.ServerError(c, err)
		return
	}

	web.Flash(c, "Category was deleted successfully!")
	c.Redirect(http.StatusFound, "/categories/")
}

func (h *CategoryHandler) loadCategory(c *gin.Context) (*models.Category, bool) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		web.NotFound(c, "Category not found.")
		return nil, false
	}
	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			web.NotFound(c, "Category not found.")
			return nil, false
		}
		web.ServerError(c, err)
		return nil, false
	}
	return category, true
}

func renderForm(c *gin.Context, data gin.H, form CategoryForm, errs web.FieldErrors) {
	data["form"] = form
	data["errors"] = errs
	web.HTML(c, http.StatusOK, "category_form.html", data)
}
