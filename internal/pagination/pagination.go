package pagination

import (
	"math"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps Skip within int for any allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page  int
	Limit int
}

// Default returns the first page with the default limit.
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// FromContext extracts pagination parameters from the gin context.
// Missing, malformed and non-positive values fall back to the defaults.
func FromContext(c *gin.Context) Params {
	return Parse(c.Query("page"), c.Query("limit"))
}

func Parse(page, limit string) Params {
	p := Default()
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip is the number of records before the current page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func (p Params) Meta(total int64) Meta {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Response wraps a paginated API response.
type Response struct {
	Success    bool `json:"success"`
	Data       any  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewResponse builds the list envelope. A nil slice is sent as [].
func NewResponse(data any, p Params, total int64) *Response {
	return &Response{Success: true, Data: nonNil(data), Pagination: p.Meta(total)}
}

func nonNil(data any) any {
	if data == nil {
		return []any{}
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return data
}
