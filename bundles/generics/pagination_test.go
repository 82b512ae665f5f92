package generics

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequestDefaults(t *testing.T) {
	pr, em := NewPageRequest(httptest.NewRequest("GET", "/threads", nil))
	require.Nil(t, em)
	assert.Equal(t, int64(1), pr.Page)
	assert.Equal(t, DefaultLimit, pr.PerPage)
	assert.Equal(t, "/threads", pr.URL)
}

func TestNewPageRequestCapsLimit(t *testing.T) {
	pr, em := NewPageRequest(httptest.NewRequest("GET", "/threads?page=3&limit=1000", nil))
	require.Nil(t, em)
	assert.Equal(t, int64(3), pr.Page)
	assert.Equal(t, MaxLimit, pr.PerPage)
}

func TestNewPageRequestInvalid(t *testing.T) {
	for _, q := range []string{"page=0", "page=-1", "limit=0", "page=abc", "limit=1.5"} {
		_, em := NewPageRequest(httptest.NewRequest("GET", "/threads?"+q, nil))
		require.NotNil(t, em, q)
		assert.Equal(t, gz.ErrorInvalidPaginationRequest, em.ErrCode, q)
		assert.Equal(t, KindValidation, KindOf(em), q)
	}
}

func TestPageOf(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 10, TotalCount: 0, TotalPages: 0}, PageOf(1, 10, 0))
	assert.Equal(t, Page{Page: 1, Limit: 10, TotalCount: 10, TotalPages: 1}, PageOf(1, 10, 10))
	assert.Equal(t, Page{Page: 2, Limit: 10, TotalCount: 11, TotalPages: 2}, PageOf(2, 10, 11))
	assert.Equal(t, Page{Page: 9, Limit: 2, TotalCount: 3, TotalPages: 2}, PageOf(9, 2, 3))
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage(&gz.PaginationRequest{Page: 4, PerPage: 20})
	assert.Equal(t, Page{Page: 4, Limit: 20}, p)
}

func TestPageOffset(t *testing.T) {
	off, ok := pageOffset(1, 10)
	assert.True(t, ok)
	assert.Equal(t, int64(0), off)

	off, ok = pageOffset(3, 10)
	assert.True(t, ok)
	assert.Equal(t, int64(20), off)

	_, ok = pageOffset(1000000000000000000, 10)
	assert.False(t, ok)
	_, ok = pageOffset(math.MaxInt64, 100)
	assert.False(t, ok)
	_, ok = pageOffset(0, 10)
	assert.False(t, ok)
}
