package comments

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CommentUseCase interface {
	Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error)
	Reply(ctx context.Context, commentID int64, reply, hostEmail string) (*domain.Comment, error)
	ListByPlace(ctx context.Context, placeID int64) ([]domain.Comment, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type CreateCommentInput struct {
	BookingID   uuid.UUID
	Rating      int
	Text        string
	AuthorEmail string
}

type CommentService struct {
	comments repository.CommentRepository
	bookings repository.BookingRepository
	places   repository.PlaceRepository
	users    repository.UserRepository
	producer Producer
	topic    string
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*CommentService)

func WithClock(now func() time.Time) Option {
	return func(s *CommentService) {
		s.now = now
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *CommentService) {
		s.log = log
	}
}

func NewCommentService(
	comments repository.CommentRepository,
	bookings repository.BookingRepository,
	places repository.PlaceRepository,
	users repository.UserRepository,
	producer Producer,
	topic string,
	opts ...Option,
) *CommentService {
	s := &CommentService{
		comments: comments,
		bookings: bookings,
		places:   places,
		users:    users,
		producer: producer,
		topic:    topic,
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores the single review a guest may leave on a completed booking.
func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestEmail != input.AuthorEmail {
		return nil, domain.ErrCommentNotGuest
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, domain.ErrCommentNotCompleted
	}

	exists, err := s.comments.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateComment
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	text, err := validateText(input.Text, domain.ErrEmptyComment)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByEmail(ctx, input.AuthorEmail)
	if err != nil {
		return nil, err
	}
	place, err := s.places.GetByID(ctx, booking.PlaceID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		BookingID:  booking.ID,
		PlaceID:    booking.PlaceID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Rating:     input.Rating,
		Text:       text,
		CreatedAt:  s.now(),
		HostEmail:  place.HostEmail,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"comment_id": comment.ID, "place_id": comment.PlaceID}).Info("comment created")
	s.notifyHost(ctx, comment, place)
	return comment, nil
}

func (s *CommentService) Reply(ctx context.Context, commentID int64, reply, hostEmail string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.HostEmail != hostEmail {
		return nil, domain.ErrReplyNotHost
	}

	text, err := validateText(reply, domain.ErrEmptyReply)
	if err != nil {
		return nil, err
	}
	if err := s.comments.SetReply(ctx, commentID, text); err != nil {
		return nil, err
	}

	comment.HostReply = text
	return comment, nil
}

func (s *CommentService) ListByPlace(ctx context.Context, placeID int64) ([]domain.Comment, error) {
	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		return nil, err
	}
	return s.comments.ListByPlace(ctx, placeID)
}

func validateText(text string, empty error) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", empty
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return "", domain.ErrCommentTooLong
	}
	return text, nil
}

func (s *CommentService) notifyHost(ctx context.Context, comment *domain.Comment, place *domain.Place) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.Event{
		Type:       kafka.EventCommentCreated,
		BookingID:  comment.BookingID.String(),
		PlaceID:    place.ID,
		PlaceTitle: place.Title,
		HostEmail:  place.HostEmail,
		AuthorName: comment.AuthorName,
		Rating:     comment.Rating,
		Comment:    comment.Text,
		OccurredAt: comment.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.topic, event.BookingID, event); err != nil {
		s.log.WithField("comment_id", comment.ID).WithError(err).Warn("failed to publish comment notification")
	}
}

var _ CommentUseCase = (*CommentService)(nil)
