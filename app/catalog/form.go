package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopboard/shopboard/app/web"
	"github.com/shopboard/shopboard/models"
)

const (
	priceMaxDigits     = 10
	priceDecimalPlaces = 2

	MsgEnterNumber      = "Enter a number."
	MsgEnterWholeNumber = "Enter a whole number."
	MsgPricePositive    = "Price must be greater than zero."
	MsgQuantityNegative = "Quantity cannot be negative."
	MsgInvalidImage     = "Upload a valid image."
	MsgDuplicateSKU     = "Product with this SKU already exists."
)

// ProductForm carries the raw values posted by the product form.
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category"`
	Price       string `form:"price" validate:"required"`
	Quantity    string `form:"quantity" validate:"required"`
	Status      string `form:"status"`
	SKU         string `form:"sku" validate:"required,max=100"`
	Featured    string `form:"is_featured"`
}

func NewProductForm(p *models.Product) ProductForm {
	form := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(priceDecimalPlaces),
		Quantity:    strconv.Itoa(p.Quantity),
		Status:      string(p.Status),
		SKU:         p.SKU,
	}
	if p.CategoryID != nil {
		form.Category = strconv.FormatUint(uint64(*p.CategoryID), 10)
	}
	if p.IsFeatured {
		form.Featured = "on"
	}
	return form
}

// Apply validates the form and, when it is valid, copies the cleaned values onto p.
// categories are the valid choices for the category field.
func (f *ProductForm) Apply(p *models.Product, categories []models.Category) web.FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = strings.TrimSpace(f.Price)
	f.Quantity = strings.TrimSpace(f.Quantity)
	f.SKU = strings.TrimSpace(f.SKU)

	errs := web.Validate(f)

	var price decimal.Decimal
	if _, failed := errs["price"]; !failed {
		var msg string
		price, msg = cleanPrice(f.Price)
		if msg != "" {
			errs.Add("price", msg)
		}
	}

	var quantity int
	if _, failed := errs["quantity"]; !failed {
		q, err := strconv.Atoi(f.Quantity)
		switch {
		case err != nil:
			errs.Add("quantity", MsgEnterWholeNumber)
		case q < 0:
			errs.Add("quantity", MsgQuantityNegative)
		default:
			quantity = q
		}
	}

	categoryID, ok := cleanCategory(f.Category, categories)
	if !ok {
		errs.Add("category", web.MsgInvalidChoice)
	}

	status := models.StatusActive
	if f.Status != "" {
		st, ok := models.ParseProductStatus(f.Status)
		if !ok {
			errs.Add("status", web.MsgInvalidChoice)
		}
		status = st
	}

	if errs.Any() {
		return errs
	}

	p.Name = f.Name
	p.Description = f.Description
	p.CategoryID = categoryID
	p.Category = nil
	p.Price = price
	p.Quantity = quantity
	p.Status = status
	p.SKU = f.SKU
	p.IsFeatured = f.Featured != "" && f.Featured != "false" && f.Featured != "off"
	return errs
}

// cleanPrice parses raw and returns the first failing message, checked in the
// order digits, decimal places, whole digits, sign.
func cleanPrice(raw string) (decimal.Decimal, string) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, MsgEnterNumber
	}

	digitsStr := strings.TrimPrefix(price.Coefficient().String(), "-")
	exp := int(price.Exponent())

	var digits, decimals int
	if exp >= 0 {
		digits = len(digitsStr)
		if digitsStr != "0" {
			digits += exp
		}
	} else {
		decimals = -exp
		digits = len(digitsStr)
		if decimals > digits {
			digits = decimals
		}
	}
	wholeDigits := digits - decimals

	switch {
	case digits > priceMaxDigits:
		return decimal.Decimal{}, fmt.Sprintf("Ensure that there are no more than %d digits in total.", priceMaxDigits)
	case decimals > priceDecimalPlaces:
		return decimal.Decimal{}, fmt.Sprintf("Ensure that there are no more than %d decimal places.", priceDecimalPlaces)
	case wholeDigits > priceMaxDigits-priceDecimalPlaces:
		return decimal.Decimal{}, fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", priceMaxDigits-priceDecimalPlaces)
	case !price.IsPositive():
		return decimal.Decimal{}, MsgPricePositive
	}
	return price, ""
}

func cleanCategory(raw string, categories []models.Category) (*uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, c := range categories {
		if uint64(c.ID) == id {
			categoryID := c.ID
			return &categoryID, true
		}
	}
	return nil, false
}
