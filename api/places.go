package api

import (
	"net/http"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/service/places"
	"github.com/gin-gonic/gin"
)

type PlaceHandler struct {
	service places.PlaceUseCase
	errs    errorWriter
}

type searchPlacesRequest struct {
	City     string   `json:"city"`
	CheckIn  string   `json:"check_in" binding:"required"`
	CheckOut string   `json:"check_out" binding:"required"`
	MinPrice *float64 `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice *float64 `json:"max_price" binding:"omitempty,min=0"`
	Page     int      `json:"page"`
}

func NewPlaceHandler(service places.PlaceUseCase, errs errorWriter) *PlaceHandler {
	return &PlaceHandler{service: service, errs: errs}
}

func (h *PlaceHandler) Register(public, private *gin.RouterGroup) {
	public.GET("/:id", h.detail)
	public.GET("/:id/metrics", h.metrics)
	public.POST("/search", h.search)
	private.PATCH("/:id/delete", h.delete)
}

func (h *PlaceHandler) detail(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, detail)
}

func (h *PlaceHandler) metrics(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	from, err := parseBound(c.Query("from"), false)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseBound(c.Query("to"), true)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := h.service.Metrics(c.Request.Context(), id, from, to)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, metrics)
}

func (h *PlaceHandler) search(c *gin.Context) {
	var req searchPlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.service.Search(c.Request.Context(), domain.PlaceSearch{
		City:     req.City,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Page:     req.Page,
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}

func (h *PlaceHandler) delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, callerEmail(c)); err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, "Alojamiento eliminado")
}
