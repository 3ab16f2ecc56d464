package api

import (
	"context"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/service/booking"
	"github.com/Domenick1991/staybooking/internal/service/comments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) result(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	return m.result(m.Called(ctx, input))
}

func (m *MockBookingUseCase) ApproveBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, hostEmail))
}

func (m *MockBookingUseCase) RejectBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, hostEmail))
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id uuid.UUID, guestEmail string) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, guestEmail))
}

func (m *MockBookingUseCase) CompleteBooking(ctx context.Context, id uuid.UUID, hostEmail string) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, hostEmail))
}

func (m *MockBookingUseCase) CompleteElapsedBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListGuestBookings(ctx context.Context, input booking.ListGuestInput) ([]domain.BookingItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingItem), args.Error(1)
}

func (m *MockBookingUseCase) ListPlaceBookings(ctx context.Context, input booking.ListPlaceInput) ([]domain.BookingItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingItem), args.Error(1)
}

func (m *MockBookingUseCase) IsAvailable(ctx context.Context, placeID int64, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, placeID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

type MockPlaceUseCase struct {
	mock.Mock
}

func (m *MockPlaceUseCase) Metrics(ctx context.Context, placeID int64, from, to time.Time) (*domain.Metrics, error) {
	args := m.Called(ctx, placeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Metrics), args.Error(1)
}

func (m *MockPlaceUseCase) Detail(ctx context.Context, placeID int64) (*domain.PlaceDetail, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceDetail), args.Error(1)
}

func (m *MockPlaceUseCase) Search(ctx context.Context, search domain.PlaceSearch) ([]domain.PlaceItem, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlaceItem), args.Error(1)
}

func (m *MockPlaceUseCase) Delete(ctx context.Context, placeID int64, hostEmail string) error {
	args := m.Called(ctx, placeID, hostEmail)
	return args.Error(0)
}

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) Create(ctx context.Context, input comments.CreateCommentInput) (*domain.Comment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Reply(ctx context.Context, commentID int64, reply, hostEmail string) (*domain.Comment, error) {
	args := m.Called(ctx, commentID, reply, hostEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentUseCase) ListByPlace(ctx context.Context, placeID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}
