package booking

import (
	"context"
	"fmt"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateBooking validates the request in order and stops at the first failure.
// The overlap check and insert share one transaction holding the place lock.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	place, err := s.places.GetByID(ctx, input.PlaceID)
	if err != nil {
		return nil, err
	}
	if !place.Active() {
		return nil, domain.ErrPlaceUnavailable
	}

	guest, err := s.users.GetByEmail(ctx, input.GuestEmail)
	if err != nil {
		return nil, err
	}

	stay := s.normalize(input.CheckIn, input.CheckOut)
	if err := s.validateStay(stay); err != nil {
		return nil, err
	}
	if err := validateGuests(input.GuestCount, place.MaxGuests); err != nil {
		return nil, err
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireRequestLock(ctx, guest.ID, place.ID, s.requestLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire request lock: %w", err)
		}
		if !ok {
			return nil, domain.ErrRequestInProgress
		}
		defer func() {
			if err := s.cache.ReleaseRequestLock(ctx, guest.ID, place.ID); err != nil {
				s.log.WithFields(logrus.Fields{"place_id": place.ID, "guest_id": guest.ID}).WithError(err).Warn("failed to release request lock")
			}
		}()
	}

	now := s.now()
	booking := &domain.Booking{
		ID:         uuid.New(),
		GuestID:    guest.ID,
		GuestEmail: guest.Email,
		PlaceID:    place.ID,
		Status:     domain.BookingStatusPending,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		GuestCount: input.GuestCount,
		CreatedAt:  now,
	}

	err = s.bookings.WithinPlaceLock(ctx, place.ID, func(ctx context.Context, tx repository.BookingTx) error {
		overlap, err := tx.HasOverlap(ctx, place.ID, stay, uuid.Nil)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrDatesUnavailable
		}
		return tx.Insert(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"place_id":   booking.PlaceID,
		"check_in":   booking.CheckIn.Format("2006-01-02"),
		"check_out":  booking.CheckOut.Format("2006-01-02"),
		"nights":     stay.Nights(),
	}).Info("booking created")

	s.publish(ctx, kafka.EventBookingCreated, booking, place)
	return booking, nil
}

func (s *BookingService) validateStay(stay domain.Stay) error {
	now := s.now()
	if stay.CheckIn.Before(now) || stay.CheckOut.Before(now) {
		return domain.ErrPastDates
	}
	if !stay.CheckOut.After(stay.CheckIn) {
		return domain.ErrMinimumOneNight
	}
	return nil
}

func validateGuests(count, maxGuests int) error {
	if count < 1 {
		return domain.ErrGuestCount
	}
	if count > maxGuests {
		return domain.ErrCapacityExceeded
	}
	return nil
}
