package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type actor int

const (
	actorHost actor = iota
	actorGuest
)

// transition describes one edge of the booking lifecycle as exposed to callers.
type transition struct {
	to        domain.BookingStatus
	actor     actor
	forbidden error
	badState  error
	event     string
	// checkOverlap re-runs the availability query excluding the booking itself.
	checkOverlap bool
	// invalidate marks transitions that change the set of confirmed stays.
	invalidate bool
}

var (
	approveTransition = transition{
		to:           domain.BookingStatusConfirmed,
		actor:        actorHost,
		forbidden:    domain.ErrApproveNotHost,
		badState:     domain.ErrApproveNotPending,
		event:        kafka.EventBookingConfirmed,
		checkOverlap: true,
		invalidate:   true,
	}
	rejectTransition = transition{
		to:        domain.BookingStatusRejected,
		actor:     actorHost,
		forbidden: domain.ErrRejectNotHost,
		badState:  domain.ErrRejectNotPending,
		event:     kafka.EventBookingRejected,
	}
	cancelTransition = transition{
		to:         domain.BookingStatusCancelled,
		actor:      actorGuest,
		forbidden:  domain.ErrCancelNotGuest,
		badState:   domain.ErrCancelState,
		event:      kafka.EventBookingCancelled,
		invalidate: true,
	}
	completeTransition = transition{
		to:         domain.BookingStatusCompleted,
		actor:      actorHost,
		forbidden:  domain.ErrCompleteNotHost,
		badState:   domain.ErrCompleteState,
		event:      kafka.EventBookingCompleted,
		invalidate: true,
	}
)

func (s *BookingService) ApproveBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return s.apply(ctx, id, hostEmail, approveTransition)
}

func (s *BookingService) RejectBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return s.apply(ctx, id, hostEmail, rejectTransition)
}

func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID, guestEmail string) (*domain.Booking, error) {
	return s.apply(ctx, id, guestEmail, cancelTransition)
}

func (s *BookingService) CompleteBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return s.apply(ctx, id, hostEmail, completeTransition)
}

// apply authorizes the caller, then reads, checks and writes the booking
// inside one transaction holding the place lock.
func (s *BookingService) apply(ctx context.Context, id uuid.UUID, callerEmail string, tr transition) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	place, err := s.places.GetByID(ctx, current.PlaceID)
	if err != nil {
		return nil, err
	}

	switch tr.actor {
	case actorHost:
		if place.HostEmail != callerEmail {
			return nil, tr.forbidden
		}
	case actorGuest:
		if current.GuestEmail != callerEmail {
			return nil, tr.forbidden
		}
	}

	var updated *domain.Booking
	err = s.bookings.WithinPlaceLock(ctx, place.ID, func(ctx context.Context, tx repository.BookingTx) error {
		booking, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(tr.to) {
			return tr.badState
		}

		now := s.now()
		if tr.to == domain.BookingStatusCancelled {
			if err := s.checkCancellationWindow(booking, now); err != nil {
				return err
			}
		}
		if tr.checkOverlap {
			overlap, err := tx.HasOverlap(ctx, booking.PlaceID, booking.Stay(), booking.ID)
			if err != nil {
				return err
			}
			if overlap {
				return domain.ErrDatesUnavailable
			}
		}

		updated, err = tx.UpdateStatus(ctx, booking.ID, tr.to, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"place_id":   updated.PlaceID,
		"status":     updated.Status,
	}).Info("booking status changed")

	if tr.invalidate {
		s.invalidate(ctx, updated.PlaceID)
	}
	s.publish(ctx, tr.event, updated, place)
	return updated, nil
}

// checkCancellationWindow requires now to be strictly before checkIn minus the window.
func (s *BookingService) checkCancellationWindow(booking *domain.Booking, now time.Time) error {
	deadline := booking.CheckIn.Add(-s.cancellationWindow)
	if now.Before(deadline) {
		return nil
	}
	return domain.CancellationWindowError(s.cancellationWindow)
}

// CompleteElapsedBookings moves every CONFIRMED booking whose check-out has passed to COMPLETED.
func (s *BookingService) CompleteElapsedBookings(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteElapsed(ctx, s.now())
	if err != nil {
		return nil, err
	}

	invalidated := make(map[int64]bool)
	places := make(map[int64]*domain.Place)
	for i := range completed {
		b := &completed[i]
		if !invalidated[b.PlaceID] {
			s.invalidate(ctx, b.PlaceID)
			invalidated[b.PlaceID] = true
		}

		place, ok := places[b.PlaceID]
		if !ok {
			place, err = s.places.GetByID(ctx, b.PlaceID)
			if err != nil {
				s.log.WithField("place_id", b.PlaceID).WithError(err).Warn("place lookup for completion event failed")
			}
			places[b.PlaceID] = place
		}
		s.publish(ctx, kafka.EventBookingCompleted, b, place)
	}

	if len(completed) > 0 {
		s.log.WithField("count", len(completed)).Info("completed elapsed bookings")
	}
	return completed, nil
}
