package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page describes one page of a paginated listing.
type Page struct {
	Number   int
	Size     int
	Total    int64
	NumPages int
}

// RequestedPage reads ?page=; missing or invalid values mean page 1.
func RequestedPage(c *gin.Context) int {
	if pStr := c.Query("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			return p
		}
	}
	return 1
}

// NewPage clamps number into [1, NumPages].
func NewPage(number, size int, total int64) Page {
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	} else if number > numPages {
		number = numPages
	}
	return Page{Number: number, Size: size, Total: total, NumPages: numPages}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }
func (p Page) Previous() int { return p.Number - 1 }
func (p Page) Next() int { return p.Number + 1 }

// Paginate fetches the requested page and falls back to the last page when
// the request points past the end.
func Paginate[T any](c *gin.Context, size int, fetch func(offset, limit int) ([]T, int64, error)) ([]T, Page, error) {
	requested := RequestedPage(c)
	items, total, err := fetch((requested-1)*size, size)
	if err != nil {
		return nil, Page{}, err
	}

	page := NewPage(requested, size, total)
	if page.Number != requested {
		items, total, err = fetch(page.Offset(), size)
		if err != nil {
			return nil, Page{}, err
		}
		page = NewPage(page.Number, size, total)
	}
	return items, page, nil
}
