package places

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/sirupsen/logrus"
)

// SearchPageSize is the fixed page size of availability search.
const SearchPageSize = 10

type PlaceUseCase interface {
	Metrics(ctx context.Context, placeID int64, from, to time.Time) (*domain.Metrics, error)
	Detail(ctx context.Context, placeID int64) (*domain.PlaceDetail, error)
	Search(ctx context.Context, search domain.PlaceSearch) ([]domain.PlaceItem, error)
	Delete(ctx context.Context, placeID int64, hostEmail string) error
}

// Cache is optional; without it Detail reads confirmed stays from the database every time.
// Entries are keyed by a per-place version that InvalidateAvailability bumps, so a
// write of stays read before an invalidation lands under a version nobody reads.
type Cache interface {
	AvailabilityVersion(ctx context.Context, placeID int64) (int64, error)
	GetAvailability(ctx context.Context, placeID, version int64) ([]domain.Stay, error)
	SetAvailability(ctx context.Context, placeID, version int64, stays []domain.Stay) error
	InvalidateAvailability(ctx context.Context, placeID int64) error
}

type PlaceService struct {
	places   repository.PlaceRepository
	bookings repository.BookingRepository
	comments repository.CommentRepository
	cache    Cache
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*PlaceService)

func WithClock(now func() time.Time) Option {
	return func(s *PlaceService) {
		s.now = now
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *PlaceService) {
		s.log = log
	}
}

func NewPlaceService(
	places repository.PlaceRepository,
	bookings repository.BookingRepository,
	comments repository.CommentRepository,
	cache Cache,
	opts ...Option,
) *PlaceService {
	s := &PlaceService{
		places:   places,
		bookings: bookings,
		comments: comments,
		cache:    cache,
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics aggregates confirmed bookings and reviews of a place in [from, to].
// Results are computed on every call.
func (s *PlaceService) Metrics(ctx context.Context, placeID int64, from, to time.Time) (*domain.Metrics, error) {
	if from.After(to) {
		return nil, domain.ErrDateRange
	}
	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		return nil, err
	}

	total, err := s.bookings.CountConfirmedWithin(ctx, placeID, from, to)
	if err != nil {
		return nil, err
	}
	stats, err := s.comments.RatingStats(ctx, placeID, &from, &to)
	if err != nil {
		return nil, err
	}

	return &domain.Metrics{
		TotalReviews:  stats.Count,
		AverageRating: stats.Average,
		TotalBookings: total,
	}, nil
}

func (s *PlaceService) Detail(ctx context.Context, placeID int64) (*domain.PlaceDetail, error) {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	stays, err := s.confirmedStays(ctx, placeID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	stats, err := s.comments.RatingStats(ctx, placeID, nil, nil)
	if err != nil {
		return nil, err
	}

	return &domain.PlaceDetail{
		Place:         *place,
		Comments:      comments,
		Availability:  stays,
		AverageRating: stats.Average,
	}, nil
}

// confirmedStays reads through the cache; cache failures fall back to the database.
func (s *PlaceService) confirmedStays(ctx context.Context, placeID int64) ([]domain.Stay, error) {
	if s.cache == nil {
		return s.bookings.ConfirmedStays(ctx, placeID)
	}

	version, err := s.cache.AvailabilityVersion(ctx, placeID)
	if err != nil {
		s.log.WithField("place_id", placeID).WithError(err).Warn("availability cache version read failed")
		return s.bookings.ConfirmedStays(ctx, placeID)
	}

	stays, err := s.cache.GetAvailability(ctx, placeID, version)
	if err != nil {
		s.log.WithField("place_id", placeID).WithError(err).Warn("availability cache read failed")
	} else if stays != nil {
		return stays, nil
	}

	stays, err = s.bookings.ConfirmedStays(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetAvailability(ctx, placeID, version, stays); err != nil {
		s.log.WithField("place_id", placeID).WithError(err).Warn("availability cache write failed")
	}
	return stays, nil
}

func (s *PlaceService) Search(ctx context.Context, search domain.PlaceSearch) ([]domain.PlaceItem, error) {
	if search.Page < 0 {
		return nil, domain.ErrPageNumber
	}
	if !search.CheckOut.After(search.CheckIn) {
		return nil, domain.ErrMinimumOneNight
	}
	if search.MinPrice != nil && search.MaxPrice != nil && *search.MinPrice > *search.MaxPrice {
		return nil, domain.ErrPriceRange
	}
	if (domain.PageRequest{Page: search.Page, Size: SearchPageSize}).OutOfRange() {
		return []domain.PlaceItem{}, nil
	}
	return s.places.Search(ctx, search, SearchPageSize)
}

// Delete eliminates the place unless it still has pending or confirmed stays ahead.
func (s *PlaceService) Delete(ctx context.Context, placeID int64, hostEmail string) error {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return err
	}
	if place.HostEmail != hostEmail {
		return domain.ErrDeletePlaceNotHost
	}

	if err := s.places.SoftDelete(ctx, placeID, s.now()); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAvailability(ctx, placeID); err != nil {
			s.log.WithField("place_id", placeID).WithError(err).Warn("availability cache invalidation failed")
		}
	}

	s.log.WithField("place_id", placeID).Info("place eliminated")
	return nil
}

var _ PlaceUseCase = (*PlaceService)(nil)
