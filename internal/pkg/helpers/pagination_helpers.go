package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1
)

// CalculateOffsetLimit converts a 1-based page index into a SQL offset/limit pair
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * limit)
	return offset, limit
}

// ExtractPaginationParams reads page and size query parameters with defaults
func ExtractPaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// NewPaginationInfo builds pagination metadata for a list response
func NewPaginationInfo(page, size, totalItems int) dto.PaginationInfo {
	totalPages := 0
	if size > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}
	return dto.PaginationInfo{
		Page:       page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
