package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestEmail string, status *domain.BookingStatus, page domain.PageRequest) ([]domain.BookingItem, error)
	ListByPlace(ctx context.Context, placeID int64, filter domain.PlaceBookingFilter, page domain.PageRequest) ([]domain.BookingItem, error)
	CountConfirmedWithin(ctx context.Context, placeID int64, from, to time.Time) (int, error)
	ConfirmedStays(ctx context.Context, placeID int64) ([]domain.Stay, error)
	CompleteElapsed(ctx context.Context, now time.Time) ([]domain.Booking, error)
	// WithinPlaceLock runs fn in a transaction holding the place row lock,
	// so booking writers on one place are serialized.
	WithinPlaceLock(ctx context.Context, placeID int64, fn func(ctx context.Context, tx BookingTx) error) error
}

// BookingTx is the set of booking operations available inside WithinPlaceLock.
type BookingTx interface {
	HasOverlap(ctx context.Context, placeID int64, stay domain.Stay, exclude uuid.UUID) (bool, error)
	Insert(ctx context.Context, booking *domain.Booking) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, at time.Time) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.guest_id, u.email, b.place_id, b.status, b.check_in, b.check_out, b.guest_count, b.created_at, b.updated_at`

const bookingItemColumns = `b.id, b.place_id, p.title, p.city, b.created_at, b.check_in, b.check_out, b.guest_count, p.price, b.status`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.GuestID, &b.GuestEmail, &b.PlaceID, &b.Status, &b.CheckIn, &b.CheckOut, &b.GuestCount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func collectBookingItems(rows pgx.Rows) ([]domain.BookingItem, error) {
	defer rows.Close()

	items := make([]domain.BookingItem, 0)
	for rows.Next() {
		var it domain.BookingItem
		if err := rows.Scan(&it.ID, &it.PlaceID, &it.PlaceTitle, &it.PlaceCity, &it.CreatedAt, &it.CheckIn, &it.CheckOut, &it.GuestCount, &it.Price, &it.Status); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN users u ON u.id = b.guest_id WHERE b.id = $1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByGuest(ctx context.Context, guestEmail string, status *domain.BookingStatus, page domain.PageRequest) ([]domain.BookingItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingItemColumns+`
		FROM bookings b
		JOIN places p ON p.id = b.place_id
		JOIN users u ON u.id = b.guest_id
		WHERE u.email = $1 AND ($2::text IS NULL OR b.status = $2)
		ORDER BY b.check_in DESC, b.created_at DESC
		LIMIT $3 OFFSET $4`, guestEmail, statusArg(status), page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list guest bookings: %w", err)
	}
	return collectBookingItems(rows)
}

func (r *PGBookingRepository) ListByPlace(ctx context.Context, placeID int64, filter domain.PlaceBookingFilter, page domain.PageRequest) ([]domain.BookingItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingItemColumns+`
		FROM bookings b
		JOIN places p ON p.id = b.place_id
		WHERE b.place_id = $1
		AND ($2::text IS NULL OR b.status = $2)
		AND ($3::timestamptz IS NULL OR b.check_in >= $3)
		AND ($4::timestamptz IS NULL OR b.check_out <= $4)
		ORDER BY b.check_in DESC, b.created_at DESC
		LIMIT $5 OFFSET $6`, placeID, statusArg(filter.Status), timeArg(filter.From), timeArg(filter.To), page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list place bookings: %w", err)
	}
	return collectBookingItems(rows)
}

func (r *PGBookingRepository) CountConfirmedWithin(ctx context.Context, placeID int64, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings
		WHERE place_id = $1 AND status = $2 AND check_in >= $3 AND check_out <= $4`,
		placeID, domain.BookingStatusConfirmed, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed bookings: %w", err)
	}
	return count, nil
}

func (r *PGBookingRepository) ConfirmedStays(ctx context.Context, placeID int64) ([]domain.Stay, error) {
	rows, err := r.db.Query(ctx, `SELECT check_in, check_out FROM bookings
		WHERE place_id = $1 AND status = $2 ORDER BY check_in`, placeID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list confirmed stays: %w", err)
	}
	defer rows.Close()

	stays := make([]domain.Stay, 0)
	for rows.Next() {
		var s domain.Stay
		if err := rows.Scan(&s.CheckIn, &s.CheckOut); err != nil {
			return nil, err
		}
		stays = append(stays, s)
	}
	return stays, rows.Err()
}

func (r *PGBookingRepository) CompleteElapsed(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `WITH b AS (
			UPDATE bookings SET status = $1, updated_at = $3
			WHERE status = $2 AND check_out <= $3
			RETURNING *
		)
		SELECT `+bookingColumns+` FROM b JOIN users u ON u.id = b.guest_id`,
		domain.BookingStatusCompleted, domain.BookingStatusConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("complete elapsed bookings: %w", err)
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *b)
	}
	return completed, rows.Err()
}

func (r *PGBookingRepository) WithinPlaceLock(ctx context.Context, placeID int64, fn func(ctx context.Context, tx BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM places WHERE id = $1 FOR UPDATE`, placeID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPlaceNotFound
		}
		return fmt.Errorf("lock place %d: %w", placeID, err)
	}

	if err := fn(ctx, &pgBookingTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return translate(err)
	}
	return nil
}

type pgBookingTx struct {
	q querier
}

const overlapQuery = `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE place_id = $1 AND status = $2
		AND check_in < $4 AND $3 < check_out
		AND id <> $5
	)`

// HasOverlap checks half-open intervals against CONFIRMED bookings only.
func (t *pgBookingTx) HasOverlap(ctx context.Context, placeID int64, stay domain.Stay, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := t.q.QueryRow(ctx, overlapQuery, placeID, string(domain.BookingStatusConfirmed), stay.CheckIn, stay.CheckOut, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("overlap query: %w", err)
	}
	return exists, nil
}

func (t *pgBookingTx) Insert(ctx context.Context, booking *domain.Booking) error {
	_, err := t.q.Exec(ctx, `INSERT INTO bookings (id, guest_id, place_id, status, check_in, check_out, guest_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		booking.ID, booking.GuestID, booking.PlaceID, booking.Status, booking.CheckIn, booking.CheckOut, booking.GuestCount, booking.CreatedAt)
	if err != nil {
		return translate(err)
	}
	booking.UpdatedAt = booking.CreatedAt
	return nil
}

func (t *pgBookingTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := t.q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN users u ON u.id = b.guest_id WHERE b.id = $1 FOR UPDATE OF b`, id)
	return scanBooking(row)
}

func (t *pgBookingTx) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	row := t.q.QueryRow(ctx, `WITH b AS (
			UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 RETURNING *
		)
		SELECT `+bookingColumns+` FROM b JOIN users u ON u.id = b.guest_id`, status, at, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
var _ BookingTx = (*pgBookingTx)(nil)
