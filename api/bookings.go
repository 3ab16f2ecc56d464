package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service booking.BookingUseCase
	errs    errorWriter
}

type createBookingRequest struct {
	PlaceID    int64  `json:"place_id" binding:"required,min=1"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	GuestCount int    `json:"guest_count"`
}

type bookingResponse struct {
	ID         string `json:"id"`
	PlaceID    int64  `json:"place_id"`
	Status     string `json:"status"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestCount int    `json:"guest_count"`
	CreatedAt  string `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID.String(),
		PlaceID:    b.PlaceID,
		Status:     string(b.Status),
		CheckIn:    b.CheckIn.Format(dateLayout),
		CheckOut:   b.CheckOut.Format(dateLayout),
		GuestCount: b.GuestCount,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service booking.BookingUseCase, errs errorWriter) *BookingHandler {
	return &BookingHandler{service: service, errs: errs}
}

// Register mounts booking routes; all of them need an authenticated caller.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/history", h.history)
	router.GET("/place/:placeId", h.placeBookings)
	router.PATCH("/:id/approve", h.transition(h.service.ApproveBooking))
	router.PATCH("/:id/reject", h.transition(h.service.RejectBooking))
	router.PATCH("/:id/cancel", h.transition(h.service.CancelBooking))
	router.PATCH("/:id/complete", h.transition(h.service.CompleteBooking))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
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

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		PlaceID:    req.PlaceID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.GuestCount,
		GuestEmail: callerEmail(c),
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}

	respond(c, http.StatusCreated, toBookingResponse(created))
}

type transitionFunc func(ctx context.Context, id uuid.UUID, callerEmail string) (*domain.Booking, error)

func (h *BookingHandler) transition(apply transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			fail(c, http.StatusBadRequest, msgInvalidID)
			return
		}

		updated, err := apply(c.Request.Context(), id, callerEmail(c))
		if err != nil {
			h.errs.write(c, err)
			return
		}
		respond(c, http.StatusOK, toBookingResponse(updated))
	}
}

func (h *BookingHandler) history(c *gin.Context) {
	status, err := optionalStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, size, err := pageParams(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.service.ListGuestBookings(c.Request.Context(), booking.ListGuestInput{
		GuestEmail: callerEmail(c),
		Status:     status,
		Page:       page,
		Size:       size,
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}

func (h *BookingHandler) placeBookings(c *gin.Context) {
	placeID, ok := int64Param(c, "placeId")
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	status, err := optionalStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	from, err := optionalDate(c, "from")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := optionalDate(c, "to")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, size, err := pageParams(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.service.ListPlaceBookings(c.Request.Context(), booking.ListPlaceInput{
		PlaceID:     placeID,
		CallerEmail: callerEmail(c),
		Status:      status,
		From:        from,
		To:          to,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}
