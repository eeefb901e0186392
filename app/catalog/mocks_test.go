package catalog

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

// --- Mocks ---

type MockProductRepo struct {
	SourceProducts []models.Product
	Err            error
	CreateErr      error
	UpdateErr      error

	lastFilters  models.ProductFilters
	lastOffset   int
	lastLimit    int
	lastCalledID uint
	Created      *models.Product
	Updated      *models.Product
	DeletedID    uint
}

func (m *MockProductRepo) GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error) {
	m.lastOffset = offset
	m.lastLimit = limit
	m.lastFilters = filters
	if m.Err != nil {
		return nil, 0, m.Err
	}

	total := int64(len(m.SourceProducts))
	end := offset + limit
	if offset > len(m.SourceProducts) {
		offset = len(m.SourceProducts)
	}
	if end > len(m.SourceProducts) {
		end = len(m.SourceProducts)
	}
	return m.SourceProducts[offset:end], total, nil
}

func (m *MockProductRepo) GetByID(id uint) (*models.Product, error) {
	m.lastCalledID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.SourceProducts {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductRepo) GetFeaturedProducts(limit int) ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var featured []models.Product
	for _, p := range m.SourceProducts {
		if p.IsFeatured && len(featured) < limit {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

func (m *MockProductRepo) GetRecentProducts(limit int) ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.SourceProducts) {
		limit = len(m.SourceProducts)
	}
	return m.SourceProducts[:limit], nil
}

func (m *MockProductRepo) CountProducts() (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.SourceProducts)), nil
}

func (m *MockProductRepo) CreateProduct(product *models.Product) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	product.ID = uint(len(m.SourceProducts) + 1)
	m.Created = product
	m.SourceProducts = append(m.SourceProducts, *product)
	return nil
}

func (m *MockProductRepo) UpdateProduct(product *models.Product) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = product
	return nil
}

func (m *MockProductRepo) DeleteProduct(id uint) error {
	if m.Err != nil {
		return m.Err
	}
	m.DeletedID = id
	return nil
}

type MockCategoryLister struct {
	Categories []models.Category
	Err        error
}

func (m *MockCategoryLister) GetAllCategories() ([]models.Category, error) {
	return m.Categories, m.Err
}

func (m *MockCategoryLister) CountCategories() (int64, error) {
	return int64(len(m.Categories)), m.Err
}

type MockImageStore struct {
	Err error

	Stored  map[string][]byte
	Deleted []string
}

func (m *MockImageStore) Put(_ context.Context, name string, data []byte, ext string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Stored == nil {
		m.Stored = map[string][]byte{}
	}
	rel := "products/2025/01/02/" + name + ext
	m.Stored[rel] = data
	return rel, nil
}

func (m *MockImageStore) Delete(_ context.Context, rel string) error {
	m.Deleted = append(m.Deleted, rel)
	return nil
}

// --- Helpers ---

var testCategories = []models.Category{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Books"},
}

func testProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		categoryID := uint(1)
		products[i] = models.Product{
			ID:          uint(i + 1),
			Name:        fmt.Sprintf("Product %02d", i+1),
			Description: "A test product",
			CategoryID:  &categoryID,
			Category:    &testCategories[0],
			Price:       decimal.RequireFromString("19.99"),
			Quantity:    i,
			Status:      models.StatusActive,
			SKU:         fmt.Sprintf("SKU-%03d", i+1),
		}
	}
	return products
}

func newTestRouter(h *CatalogHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(web.LoadTemplates()))

	r.GET("/catalog/", h.HandleHome)
	r.GET("/products/", h.HandleList)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/products/create/", h.HandleCreate)
	r.GET("/products/:id/", h.HandleDetail)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/products/:id/update/", h.HandleUpdate)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/products/:id/delete/", h.HandleDelete)
	return r
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validProductValues() url.Values {
	return url.Values{
		"name":        {"Laptop Pro 15"},
		"description": {"High-performance laptop"},
		"category":    {"1"},
		"price":       {"1299.99"},
		"quantity":    {"25"},
		"status":      {"active"},
		"sku":         {"ELEC-LAP-001"},
	}
}
