package catalog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

const (
	ProductsPerPage = 10
	homeListSize    = 6
)

type ProductProvider interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetFeaturedProducts(limit int) ([]models.Product, error)
	GetRecentProducts(limit int) ([]models.Product, error)
	CountProducts() (int64, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(product *models.Product) error
	DeleteProduct(id uint) error
}

// CategoryLister supplies the category choices of the product form and filters.
type CategoryLister interface {
	GetAllCategories() ([]models.Category, error)
	CountCategories() (int64, error)
}

type CatalogHandler struct {
	repo       ProductProvider
	categories CategoryLister
	images     ImageStore
}

func NewCatalogHandler(r ProductProvider, categories CategoryLister, images ImageStore) *CatalogHandler {
	return &CatalogHandler{
		repo:       r,
		categories: categories,
		images:     images,
	}
}

// HandleHome renders the catalog dashboard.
func (h *CatalogHandler) HandleHome(c *gin.Context) {
	totalProducts, err := h.repo.CountProducts()
	if err != nil {
		web.ServerError(c, err)
		return
	}
	totalCategories, err := h.categories.CountCategories()
	if err != nil {
		web.ServerError(c, err)
		return
	}
	featured, err := h.repo.GetFeaturedProducts(homeListSize)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	recent, err := h.repo.GetRecentProducts(homeListSize)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.HTML(c, http.StatusOK, "home.html", gin.H{
		"title":             "Home",
		"total_products":    totalProducts,
		"total_categories":  totalCategories,
		"featured_products": featured,
		"recent_products":   recent,
	})
}

func (h *CatalogHandler) HandleList(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	category := c.Query("category")
	status := c.Query("status")

	filters := models.ProductFilters{
		Search: search,
		Status: status,
	}
	// An unparsable category is ignored
	if id, err := strconv.ParseUint(category, 10, 64); err == nil {
		categoryID := uint(id)
		filters.CategoryID = &categoryID
	}

	products, page, err := web.Paginate(c, ProductsPerPage, func(offset, limit int) ([]models.Product, int64, error) {
		return h.repo.GetFilteredProducts(offset, limit, filters)
	})
	if err != nil {
		web.ServerError(c, err)
		return
	}

	categories, err := h.categories.GetAllCategories()
	if err != nil {
		web.ServerError(c, err)
		return
	}
	totalProducts, err := h.repo.CountProducts()
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.HTML(c, http.StatusOK, "product_list.html", gin.H{
		"title":          "Products",
		"products":       products,
		"page":           page,
		"query":          c.Request.URL.Query(),
		"search":         search,
		"category":       category,
		"status":         status,
		"categories":     categories,
		"statuses":       models.ProductStatuses,
		"total_products": totalProducts,
	})
}

func (h *CatalogHandler) HandleDetail(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}
	web.HTML(c, http.StatusOK, "product_detail.html", gin.H{
		"title":   product.Name,
		"product": product,
	})
}

func (h *CatalogHandler) HandleCreate(c *gin.Context) {
	categories, err := h.categories.GetAllCategories()
	if err != nil {
		web.ServerError(c, err)
		return
	}

	page := formPage{
		Title:      "Add New Product",
		Button:     "Create Product",
		Action:     "/products/create/",
		Categories: categories,
		Form:       ProductForm{Status: string(models.StatusActive), Quantity: "0"},
		Errors:     web.FieldErrors{},
	}
	if c.Request.Method != http.MethodPost {
		page.render(c)
		return
	}

	product := &models.Product{}
	if !h.bindProduct(c, &page, product) {
		return
	}

	if err := h.repo.CreateProduct(product); err != nil {
		h.discardImage(c, product.Image)
		if errors.Is(err, models.ErrDuplicateSKU) {
			page.Errors.Add("sku", MsgDuplicateSKU)
			page.render(c)
			return
		}
		web.ServerError(c, err)
		return
	}

	web.Flash(c, fmt.Sprintf("Product '%s' was created successfully!", product.Name))
	c.Redirect(http.StatusFound, fmt.Sprintf("/products/%d/", product.ID))
}

func (h *CatalogHandler) HandleUpdate(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}
	categories, err := h.categories.GetAllCategories()
	if err != nil {
		web.ServerError(c, err)
		return
	}

	page := formPage{
		Title:        "Edit Product",
		Button:       "Update Product",
		Action:       fmt.Sprintf("/products/%d/update/", product.ID),
		Categories:   categories,
		Form:         NewProductForm(product),
		Errors:       web.FieldErrors{},
		CurrentImage: product.Image,
	}
	if c.Request.Method != http.MethodPost {
		page.render(c)
		return
	}

	previousImage := product.Image
	if !h.bindProduct(c, &page, product) {
		return
	}

	if err := h.repo.UpdateProduct(product); err != nil {
		if product.Image != previousImage {
			h.discardImage(c, product.Image)
		}
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			web.NotFound(c, "Product not found.")
		case errors.Is(err, models.ErrDuplicateSKU):
			page.Errors.Add("sku", MsgDuplicateSKU)
			page.render(c)
		default:
			web.ServerError(c, err)
		}
		return
	}
	if product.Image != previousImage {
		h.discardImage(c, previousImage)
	}

	web.Flash(c, fmt.Sprintf("Product '%s' was updated successfully!", product.Name))
	c.Redirect(http.StatusFound, fmt.Sprintf("/products/%d/", product.ID))
}

func (h *CatalogHandler) HandleDelete(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}
	if c.Request.Method != http.MethodPost {
		web.HTML(c, http.StatusOK, "product_confirm_delete.html", gin.H{
			"title":   "Delete " + product.Name,
			"product": product,
		})
		return
	}

	if err := h.repo.DeleteProduct(product.ID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			web.NotFound(c, "Product not found.")
			return
		}
		web.ServerError(c, err)
		return
	}
	h.discardImage(c, product.Image)

	web.Flash(c, "Product was deleted successfully!")
	c.Redirect(http.StatusFound, "/products/")
}

func (h *CatalogHandler) loadProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := web.ParseID(c, "id")
	if !ok {
		web.NotFound(c, "Product not found.")
		return nil, false
	}
	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			web.NotFound(c, "Product not found.")
			return nil, false
		}
		web.ServerError(c, err)
		return nil, false
	}
	return product, true
}

// bindProduct binds and validates the posted form and stores a new image.
// It renders the form and returns false when the product must not be saved.
func (h *CatalogHandler) bindProduct(c *gin.Context, page *formPage, product *models.Product) bool {
	page.Form = ProductForm{}
	if err := c.ShouldBind(&page.Form); err != nil {
		page.Errors = web.ValidationErrors(err)
		page.render(c)
		return false
	}
	page.Errors = page.Form.Apply(product, page.Categories)

	data, ext, hasImage := h.readImage(c, page.Errors)
	if page.Errors.Any() {
		page.render(c)
		return false
	}

	if hasImage {
		rel, err := h.images.Put(c.Request.Context(), product.Name, data, ext)
		if err != nil {
			web.ServerError(c, err)
			return false
		}
		product.Image = rel
	}
	return true
}

// readImage returns the uploaded image, if any. An unacceptable upload is
// reported on errs.
func (h *CatalogHandler) readImage(c *gin.Context, errs web.FieldErrors) ([]byte, string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, "", false
	}

	ext, ok := ImageExt(header.Filename)
	if !ok {
		errs.Add("image", MsgInvalidImage)
		return nil, "", false
	}

	file, err := header.Open()
	if err != nil {
		errs.Add("image", MsgInvalidImage)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		errs.Add("image", MsgInvalidImage)
		return nil, "", false
	}
	return data, ext, true
}

func (h *CatalogHandler) discardImage(c *gin.Context, rel string) {
	if rel == "" {
		return
	}
	if err := h.images.Delete(c.Request.Context(), rel); err != nil {
		log.Printf("WARNING: failed to remove image %s: %v", rel, err)
	}
}

type formPage struct {
	Title        string
	Button       string
	Action       string
	Categories   []models.Category
	Form         ProductForm
	Errors       web.FieldErrors
	CurrentImage string
}

func (p *formPage) render(c *gin.Context) {
	web.HTML(c, http.StatusOK, "product_form.html", gin.H{
		"title":         p.Title,
		"form_title":    p.Title,
		"button_text":   p.Button,
		"action":        p.Action,
		"categories":    p.Categories,
		"statuses":      models.ProductStatuses,
		"form":          p.Form,
		"errors":        p.Errors,
		"current_image": p.CurrentImage,
	})
}
