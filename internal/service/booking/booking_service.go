package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, guestEmail string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error)
	CompleteElapsedBookings(ctx context.Context) ([]domain.Booking, error)
	ListGuestBookings(ctx context.Context, input ListGuestInput) ([]domain.BookingItem, error)
	ListPlaceBookings(ctx context.Context, input ListPlaceInput) ([]domain.BookingItem, error)
	IsAvailable(ctx context.Context, placeID int64, checkIn, checkOut time.Time) (bool, error)
}

// Cache is optional; a nil Cache disables request locks and availability invalidation.
type Cache interface {
	AcquireRequestLock(ctx context.Context, guestID, placeID int64, ttl time.Duration) (bool, error)
	ReleaseRequestLock(ctx context.Context, guestID, placeID int64) error
	InvalidateAvailability(ctx context.Context, placeID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	places             repository.PlaceRepository
	users              repository.UserRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	cancellationWindow time.Duration
	requestLockTTL     time.Duration
	maxPageSize        int
	location           *time.Location
	now                func() time.Time
	log                logrus.FieldLogger
}

type CreateBookingInput struct {
	PlaceID    int64
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	GuestEmail string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCancellationWindow(window time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cancellationWindow = window
	}
}

func WithRequestLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.requestLockTTL = ttl
	}
}

func WithMaxPageSize(size int) BookingServiceOption {
	return func(s *BookingService) {
		s.maxPageSize = size
	}
}

// WithLocation sets the zone in which check-in and check-out dates start.
func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.location = loc
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	places repository.PlaceRepository,
	users repository.UserRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:           bookings,
		places:             places,
		users:              users,
		cache:              cache,
		producer:           producer,
		bookingTopic:       bookingTopic,
		cancellationWindow: 48 * time.Hour,
		requestLockTTL:     30 * time.Second,
		maxPageSize:        100,
		location:           time.UTC,
		now:                time.Now,
		log:                logger.Discard(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) invalidate(ctx context.Context, placeID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx, placeID); err != nil {
		s.log.WithFields(logrus.Fields{"place_id": placeID, "error": err}).Warn("availability cache invalidation failed")
	}
}

// publish is best-effort: the booking is already committed when it runs.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, place *domain.Place) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.Event{
		Type:       eventType,
		BookingID:  booking.ID.String(),
		PlaceID:    booking.PlaceID,
		GuestEmail: booking.GuestEmail,
		Status:     string(booking.Status),
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		GuestCount: booking.GuestCount,
		OccurredAt: s.now(),
	}
	if place != nil {
		event.PlaceTitle = place.Title
		event.HostEmail = place.HostEmail
	}

	fields := logrus.Fields{"event": eventType, "booking_id": event.BookingID}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingID, event); err != nil {
		s.log.WithFields(fields).WithError(err).Warn("failed to publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingID, event); err != nil {
			s.log.WithFields(fields).WithError(err).Warn("failed to publish notification")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
