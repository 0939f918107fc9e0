package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		offset int
		want   Pagination
	}{
		{name: "unchanged", limit: 20, offset: 40, want: Pagination{Limit: 20, Offset: 40}},
		{name: "zero limit defaults", limit: 0, offset: 0, want: Pagination{Limit: constants.DefaultLimit}},
		{name: "limit capped", limit: 1000, offset: 0, want: Pagination{Limit: constants.MaxLimit}},
		{name: "negative offset", limit: 5, offset: -3, want: Pagination{Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePagination(tt.limit, tt.offset))
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tickets?limit=25&offset=50", nil)
	assert.Equal(t, Pagination{Limit: 25, Offset: 50}, ParsePagination(c))

	c.Request = httptest.NewRequest("GET", "/tickets?limit=abc", nil)
	assert.Equal(t, Pagination{Limit: constants.DefaultLimit}, ParsePagination(c))
}
