package editions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cardhub/pkg/api"
	"cardhub/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

type editionReq struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Year string `json:"year"`
}

func (h *Handler) create(c *gin.Context) {
	var req editionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		api.Fail(c, http.StatusBadRequest, "code and name are required")
		return
	}

	edition, err := h.Service.Create(c.Request.Context(), Input{
		Code: req.Code,
		Name: req.Name,
		Year: req.Year,
	})
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusCreated, edition)
}

func (h *Handler) list(c *gin.Context) {
	page := api.Pagination(c)

	items, total, err := h.Service.List(c.Request.Context(), page.Page, page.PageSize)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OKList(c, items, page, total)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	edition, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, edition)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var upd models.EditionUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	edition, err := h.Service.Update(c.Request.Context(), id, upd)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, edition)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"message": "deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
