package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	Search(ctx context.Context, search domain.PlaceSearch, pageSize int) ([]domain.PlaceItem, error)
	// SoftDelete marks the place ELIMINATED unless PENDING or CONFIRMED
	// bookings ending after now exist.
	SoftDelete(ctx context.Context, id int64, now time.Time) error
}

type PGPlaceRepository struct {
	db *pgxpool.Pool
}

func NewPlaceRepository(db *pgxpool.Pool) PlaceRepository {
	return &PGPlaceRepository{db: db}
}

func (r *PGPlaceRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	row := r.db.QueryRow(ctx, `SELECT p.id, p.title, p.description, p.city, p.address, p.latitude, p.longitude, p.price, p.max_guests, p.host_id, u.email, p.status
		FROM places p JOIN users u ON u.id = p.host_id WHERE p.id = $1`, id)
	var p domain.Place
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.City, &p.Address, &p.Latitude, &p.Longitude, &p.Price, &p.MaxGuests, &p.HostID, &p.HostEmail, &p.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPlaceRepository) Search(ctx context.Context, search domain.PlaceSearch, pageSize int) ([]domain.PlaceItem, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.title, p.city, p.price,
			COALESCE((SELECT AVG(c.rating)::float8 FROM comments c WHERE c.place_id = p.id), 0)
		FROM places p
		WHERE p.status = $1
		AND ($2 = '' OR p.city = $2)
		AND ($3::float8 IS NULL OR p.price >= $3)
		AND ($4::float8 IS NULL OR p.price <= $4)
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.place_id = p.id AND b.status = $5
			AND b.check_in < $7 AND $6 < b.check_out
		)
		ORDER BY p.id
		LIMIT $8 OFFSET $9`,
		domain.PlaceStatusActive, search.City, search.MinPrice, search.MaxPrice,
		domain.BookingStatusConfirmed, search.CheckIn, search.CheckOut,
		pageSize, search.Page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PlaceItem, 0)
	for rows.Next() {
		var it domain.PlaceItem
		if err := rows.Scan(&it.ID, &it.Title, &it.City, &it.Price, &it.Rating); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGPlaceRepository) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM places WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPlaceNotFound
		}
		return fmt.Errorf("lock place %d: %w", id, err)
	}

	var future int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings
		WHERE place_id = $1 AND status IN ($2, $3) AND check_out > $4`,
		id, domain.BookingStatusPending, domain.BookingStatusConfirmed, now).Scan(&future); err != nil {
		return fmt.Errorf("count future bookings: %w", err)
	}
	if future > 0 {
		return domain.ErrHasFuture
	}

	if _, err := tx.Exec(ctx, `UPDATE places SET status = $1 WHERE id = $2`, domain.PlaceStatusEliminated, id); err != nil {
		return fmt.Errorf("eliminate place %d: %w", id, err)
	}
	return tx.Commit(ctx)
}

var _ PlaceRepository = (*PGPlaceRepository)(nil)
