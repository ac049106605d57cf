package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardhub/internal/liga"
	"cardhub/pkg/repository"
)

type PageInfo struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// Response is the uniform envelope for every endpoint:
// {metadata?, data?, error?}.
type Response struct {
	Metadata *PageInfo     `json:"metadata,omitempty"`
	Data     any           `json:"data,omitempty"`
	Error    *ErrorMessage `json:"error,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Data: data})
}

func OKList(c *gin.Context, data any, page PageParams, total int) {
	c.JSON(http.StatusOK, Response{
		Data: data,
		Metadata: &PageInfo{
			Total:    total,
			Page:     page.Page,
			PageSize: page.PageSize,
		},
	})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Error: &ErrorMessage{Message: message}})
}

// Error maps a core error onto a status code and envelope. Errors
// propagate up from the core unchanged; this is the single place that
// translates them for HTTP.
func Error(c *gin.Context, err error) {
	var filterErr *repository.UnknownFilterError
	var fetchErr *liga.FetchError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		Fail(c, http.StatusNotFound, "not found")
	case errors.As(err, &filterErr):
		Fail(c, http.StatusBadRequest, filterErr.Error())
	case errors.As(err, &fetchErr):
		Fail(c, http.StatusBadGateway, "external source failure")
	case repository.IsForeignKeyViolation(err):
		Fail(c, http.StatusConflict, "entity is referenced by other records")
	case repository.IsUniqueViolation(err):
		Fail(c, http.StatusConflict, "duplicate entity")
	default:
		Fail(c, http.StatusInternalServerError, "internal error")
	}
}
