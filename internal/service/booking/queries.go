package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
)

type ListGuestInput struct {
	GuestEmail string
	Status     *domain.BookingStatus
	Page       int
	Size       int
}

type ListPlaceInput struct {
	PlaceID     int64
	CallerEmail string
	Status      *domain.BookingStatus
	From        *time.Time
	To          *time.Time
	Page        int
	Size        int
}

func (s *BookingService) ListGuestBookings(ctx context.Context, input ListGuestInput) ([]domain.BookingItem, error) {
	page, err := s.pageRequest(input.Page, input.Size)
	if err != nil {
		return nil, err
	}
	if page.OutOfRange() {
		return []domain.BookingItem{}, nil
	}
	return s.bookings.ListByGuest(ctx, input.GuestEmail, input.Status, page)
}

// ListPlaceBookings is restricted to the place host.
func (s *BookingService) ListPlaceBookings(ctx context.Context, input ListPlaceInput) ([]domain.BookingItem, error) {
	page, err := s.pageRequest(input.Page, input.Size)
	if err != nil {
		return nil, err
	}
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return nil, domain.ErrDateRange
	}

	place, err := s.places.GetByID(ctx, input.PlaceID)
	if err != nil {
		return nil, err
	}
	if place.HostEmail != input.CallerEmail {
		return nil, domain.ErrListNotHost
	}
	if page.OutOfRange() {
		return []domain.BookingItem{}, nil
	}

	filter := domain.PlaceBookingFilter{Status: input.Status, From: input.From, To: input.To}
	return s.bookings.ListByPlace(ctx, place.ID, filter, page)
}

func (s *BookingService) pageRequest(page, size int) (domain.PageRequest, error) {
	if size <= 0 {
		return domain.PageRequest{}, domain.ErrPageSize
	}
	if page < 0 {
		return domain.PageRequest{}, domain.ErrPageNumber
	}
	if s.maxPageSize > 0 && size > s.maxPageSize {
		size = s.maxPageSize
	}
	return domain.PageRequest{Page: page, Size: size}, nil
}
