package api

import (
	"net/http"

	"github.com/Domenick1991/staybooking/internal/service/comments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service comments.CommentUseCase
	errs    errorWriter
}

type createCommentRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func NewCommentHandler(service comments.CommentUseCase, errs errorWriter) *CommentHandler {
	return &CommentHandler{service: service, errs: errs}
}

func (h *CommentHandler) Register(public, private *gin.RouterGroup) {
	public.GET("/place/:placeId", h.listByPlace)
	private.POST("", h.create)
	private.PATCH("/:id/reply", h.reply)
}

func (h *CommentHandler) create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), comments.CreateCommentInput{
		BookingID:   bookingID,
		Rating:      req.Rating,
		Text:        req.Text,
		AuthorEmail: callerEmail(c),
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusCreated, comment)
}

func (h *CommentHandler) reply(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.service.Reply(c.Request.Context(), id, req.Reply, callerEmail(c))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, comment)
}

func (h *CommentHandler) listByPlace(c *gin.Context) {
	placeID, ok := int64Param(c, "placeId")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	list, err := h.service.ListByPlace(c.Request.Context(), placeID)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}
