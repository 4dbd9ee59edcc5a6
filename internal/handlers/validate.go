package handlers

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// paginationMeta builds the pagination block every list endpoint returns.
func paginationMeta(page, limit int, total int64) gin.H {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return gin.H{
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
		"hasNext":    page < totalPages,
		"hasPrev":    page > 1,
		"limit":      limit,
	}
}

// pageParams parses page/limit query params with the defaults the dashboard
// expects.
func pageParams(c *gin.Context) (page, limit int, skip int64) {
	page = 1
	limit = 10
	if v := c.Query("page"); v != "" {
		if parsed, err := parsePositive(v); err == nil {
			page = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := parsePositive(v); err == nil {
			limit = parsed
		}
	}
	skip = int64((page - 1) * limit)
	return page, limit, skip
}
