package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

// ParseUUIDParam reads a UUID path parameter, returning a ValidationError when malformed.
func ParseUUIDParam(c *gin.Context, paramName, entityName string) (string, error) {
	v := c.Param(paramName)
	if v == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}
	if !id.IsUUID(v) {
		return "", errors.NewValidationError("invalid " + entityName + " ID format")
	}
	return v, nil
}

// ParseTokenParam reads a base62 public token path parameter.
func ParseTokenParam(c *gin.Context, paramName string) (string, error) {
	v := c.Param(paramName)
	if !id.IsBase62(v) || len(v) > 64 {
		return "", errors.NewNotFoundError("certificate not found or invalid")
	}
	return v, nil
}
