package pokedex

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cardhub/pkg/api"
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
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/cards", h.addCard)
	rg.GET("/:id/cards", h.listCards)
	rg.DELETE("/:id/cards/:card_id", h.removeCard)
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.Fail(c, http.StatusBadRequest, "name is required")
		return
	}

	pokedex, err := h.Service.Create(c.Request.Context(), req.Name)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusCreated, pokedex)
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
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pokedex, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, pokedex)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"message": "deleted"})
}

type addCardReq struct {
	CardID int64 `json:"card_id"`
}

func (h *Handler) addCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addCardReq
	if err := c.ShouldBindJSON(&req); err != nil || req.CardID <= 0 {
		api.Fail(c, http.StatusBadRequest, "card_id is required")
		return
	}

	if err := h.Service.AddCard(c.Request.Context(), id, req.CardID); err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusCreated, gin.H{"message": "added"})
}

func (h *Handler) listCards(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page := api.Pagination(c)

	items, total, err := h.Service.ListCards(c.Request.Context(), id, page.Page, page.PageSize)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.OKList(c, items, page, total)
}

func (h *Handler) removeCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "card_id")
	if !ok {
		return
	}

	if err := h.Service.RemoveCard(c.Request.Context(), id, cardID); err != nil {
		api.Error(c, err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"message": "removed"})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(c, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}
