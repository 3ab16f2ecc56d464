package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 10
)

var (
	errBadDate   = errors.New(msgInvalidDate)
	errBadNumber = errors.New(msgInvalidNumber)
	errBadStatus = errors.New(msgInvalidStatus)
)

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

// parseBound reads a window bound as an RFC3339 instant or a plain date.
// A plain date used as an upper bound covers its whole day.
func parseBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return t, nil
}

func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalStatus(c *gin.Context) (*domain.BookingStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, ok := domain.ParseBookingStatus(raw)
	if !ok {
		return nil, errBadStatus
	}
	return &status, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadNumber
	}
	return n, nil
}

func pageParams(c *gin.Context) (page, size int, err error) {
	if page, err = queryInt(c, "page", 0); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(c, "size", defaultPageSize); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func int64Param(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
