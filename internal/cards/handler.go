package cards

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
	rg.POST("/cards", h.create)
	rg.GET("/cards", h.list)
	rg.GET("/cards/:id", h.get)
	rg.PUT("/cards/:id", h.update)
	rg.DELETE("/cards/:id", h.remove)
}

type createReq struct {
	CardID      string `json:"card_id"`
	SetID       string `json:"set_id"`
	EditionSlug string `json:"edition_slug"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.CardID = strings.TrimSpace(req.CardID)
	req.SetID = strings.TrimSpace(req.SetID)
	req.EditionSlug = strings.TrimSpace(req.EditionSlug)
	if req.CardID == "" || req.SetID == "" || req.EditionSlug == "" {
		api.Fail(c, http.StatusBadRequest, "card_id, set_id and edition_slug are required")
		return
	}

	detail, created, err := h.Service.Create(c.Request.Context(), CreateInput{
		CardID:      req.CardID,
		SetID:       req.SetID,
		EditionSlug: req.EditionSlug,
	})
	if err != nil {
		api.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	api.OK(c, status, detail)
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

	detail, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, detail)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var upd models.CardUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	detail, err := h.Service.Update(c.Request.Context(), id, upd)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, detail)
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
