package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"media": func(path string) string {
			return "/media/" + path
		},
		"pageQuery": func(q url.Values, page int) string {
			values := url.Values{}
			for k, v := range q {
				values[k] = v
			}
			values.Set("page", strconv.Itoa(page))
			return "?" + values.Encode()
		},
		"idString": func(id *uint) string {
			if id == nil {
				return ""
			}
			return strconv.FormatUint(uint64(*id), 10)
		},
		"uintString": func(id uint) string {
			return strconv.FormatUint(uint64(id), 10)
		},
	}
}

// HTML renders a page template with the pending flash messages attached.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["messages"] = PopFlashes(c)
	c.HTML(status, name, data)
}

func NotFound(c *gin.Context, message string) {
	HTML(c, http.StatusNotFound, "404.html", gin.H{"message": message})
}

// ServerError logs err and renders the generic error page.
func ServerError(c *gin.Context, err error) {
	log.Printf("ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	HTML(c, http.StatusInternalServerError, "500.html", nil)
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
