package domain

import (
	"time"

	"github.com/google/uuid"
)

const MaxCommentLength = 500

type Comment struct {
	ID         int64     `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	PlaceID    int64     `json:"place_id"`
	AuthorID   int64     `json:"-"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	HostReply  string    `json:"host_reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	// HostEmail is the place host, loaded for reply authorization.
	HostEmail string `json:"-"`
}

// RatingStats aggregates comment ratings over a window.
type RatingStats struct {
	Average float64
	Count   int
}
