package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
)

// IsAvailable reports whether no CONFIRMED booking of the place overlaps [checkIn, checkOut).
// The answer is advisory; CreateBooking repeats the check under the place lock.
func (s *BookingService) IsAvailable(ctx context.Context, placeID int64, checkIn, checkOut time.Time) (bool, error) {
	stay := s.normalize(checkIn, checkOut)
	if !stay.CheckIn.Before(stay.CheckOut) {
		return false, domain.ErrMinimumOneNight
	}
	confirmed, err := s.bookings.ConfirmedStays(ctx, placeID)
	if err != nil {
		return false, err
	}
	_, overlap := domain.FirstOverlap(confirmed, stay)
	return !overlap, nil
}

// normalize moves both dates to the start of their calendar day in the service location.
func (s *BookingService) normalize(checkIn, checkOut time.Time) domain.Stay {
	return domain.Stay{
		CheckIn:  startOfDay(checkIn, s.location),
		CheckOut: startOfDay(checkOut, s.location),
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
