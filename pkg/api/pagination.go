package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PageParams struct {
	Page     int
	PageSize int
}

// Skip converts the 1-based page into a row offset.
func (p PageParams) Skip() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination reads page/page_size query params with defaults 1/20,
// clamping page_size to [1,100] and page to >= 1.
func Pagination(c *gin.Context) PageParams {
	page := parseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	size := parseInt(c.Query("page_size"), defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return PageParams{Page: page, PageSize: size}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
