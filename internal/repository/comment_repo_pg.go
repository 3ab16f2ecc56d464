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

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	SetReply(ctx context.Context, id int64, reply string) error
	ListByPlace(ctx context.Context, placeID int64) ([]domain.Comment, error)
	// RatingStats averages ratings with created_at in [from, to]; nil bounds are open.
	RatingStats(ctx context.Context, placeID int64, from, to *time.Time) (domain.RatingStats, error)
}

type PGCommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) CommentRepository {
	return &PGCommentRepository{db: db}
}

const commentColumns = `c.id, c.booking_id, c.place_id, c.author_id, u.name, c.rating, c.text, COALESCE(c.host_reply, ''), c.created_at, h.email`

const commentJoins = `FROM comments c
		JOIN users u ON u.id = c.author_id
		JOIN places p ON p.id = c.place_id
		JOIN users h ON h.id = p.host_id`

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.BookingID, &c.PlaceID, &c.AuthorID, &c.AuthorName, &c.Rating, &c.Text, &c.HostReply, &c.CreatedAt, &c.HostEmail); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO comments (booking_id, place_id, author_id, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		comment.BookingID, comment.PlaceID, comment.AuthorID, comment.Rating, comment.Text, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *PGCommentRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE booking_id = $1)`, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("comment exists: %w", err)
	}
	return exists, nil
}

func (r *PGCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` `+commentJoins+` WHERE c.id = $1`, id))
}

func (r *PGCommentRepository) SetReply(ctx context.Context, id int64, reply string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE comments SET host_reply = $1 WHERE id = $2`, reply, id)
	if err != nil {
		return fmt.Errorf("set reply: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *PGCommentRepository) ListByPlace(ctx context.Context, placeID int64) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+commentColumns+` `+commentJoins+` WHERE c.place_id = $1 ORDER BY c.created_at DESC`, placeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *PGCommentRepository) RatingStats(ctx context.Context, placeID int64, from, to *time.Time) (domain.RatingStats, error) {
	var stats domain.RatingStats
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating)::float8, 0), COUNT(*) FROM comments
		WHERE place_id = $1
		AND ($2::timestamptz IS NULL OR created_at >= $2)
		AND ($3::timestamptz IS NULL OR created_at <= $3)`,
		placeID, timeArg(from), timeArg(to)).Scan(&stats.Average, &stats.Count)
	if err != nil {
		return domain.RatingStats{}, fmt.Errorf("rating stats: %w", err)
	}
	return stats, nil
}

var _ CommentRepository = (*PGCommentRepository)(nil)
