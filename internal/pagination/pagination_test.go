package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(contextFor("/"))
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Skip())
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(contextFor("/?page=3&limit=20"))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 40, p.Skip())
}

func TestFromContext_InvalidFallsBack(t *testing.T) {
	for _, q := range []string{"?page=0&limit=-4", "?page=abc&limit=x", "?page=-1"} {
		p := FromContext(contextFor("/" + q))
		assert.Equal(t, Default(), p, q)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := FromContext(contextFor("/?limit=500"))
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestFromContext_HugePageIsClamped(t *testing.T) {
	p := FromContext(contextFor("/?page=92233720368547760&limit=100"))
	assert.Equal(t, MaxPage, p.Page)
	assert.Positive(t, p.Skip())

	p = FromContext(contextFor("/?page=99999999999999999999999"))
	assert.Equal(t, DefaultPage, p.Page)
}

func TestMeta_PagesIsCeil(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		pages int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{101, 100, 2},
	}
	for _, tc := range cases {
		m := Params{Page: 1, Limit: tc.limit}.Meta(tc.total)
		assert.Equal(t, tc.pages, m.Pages, "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.total, m.Total)
	}
}

func TestNewResponse_NilSliceIsEmptyArray(t *testing.T) {
	var items []string
	body, err := json.Marshal(NewResponse(items, Default(), 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}`, string(body))
}
