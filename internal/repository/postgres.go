package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/staybooking/config"
	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Constraint names from migrations/001_init.sql.
const (
	constraintConfirmedOverlap  = "bookings_no_confirmed_overlap"
	constraintCommentPerBooking = "comments_booking_id_key"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a pool and waits for the database to answer a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	const maxAttempts = 10
	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}
		if attempt == maxAttempts {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("database not ready, retrying")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

// translate maps constraint violations onto the business errors they enforce.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintConfirmedOverlap:
		return domain.ErrDatesUnavailable
	case constraintCommentPerBooking:
		return domain.ErrDuplicateComment
	}
	return err
}

func statusArg(s *domain.BookingStatus) any {
	if s == nil {
		return nil
	}
	return string(*s)
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
