package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

// Pagination holds normalized limit/offset parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ValidatePagination clamps limit to [1, MaxLimit] and offset to >= 0.
func ValidatePagination(limit, offset int) Pagination {
	if limit < 1 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// ParsePagination reads limit and offset from the query string.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		parseQueryInt(c, "limit", constants.DefaultLimit),
		parseQueryInt(c, "offset", 0),
	)
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
