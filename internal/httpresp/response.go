package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListResponse wraps an unpaged result. Total is the number of items
// returned.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// PageResponse wraps one page of a larger result. Total counts every
// matching row, not only this page.
type PageResponse[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// Page writes data as page (1-based) of limit rows out of total.
func Page[T any](c *gin.Context, data []T, total int64, page, limit int) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page*limit) < total,
	})
}
