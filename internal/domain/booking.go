package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

// ParseBookingStatus accepts the persisted upper-case names.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected,
		BookingStatusCancelled, BookingStatusCompleted:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Stay is a half-open [CheckIn, CheckOut) interval.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Overlaps treats adjacent stays (one's CheckOut equal to the other's CheckIn) as disjoint.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

// Nights is the number of whole days in the stay.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

type Booking struct {
	ID         uuid.UUID
	GuestID    int64
	GuestEmail string
	PlaceID    int64
	Status     BookingStatus
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// BookingItem is the list projection of a booking joined with its place.
type BookingItem struct {
	ID         uuid.UUID     `json:"id"`
	PlaceID    int64         `json:"place_id"`
	PlaceTitle string        `json:"place_title"`
	PlaceCity  string        `json:"place_city"`
	CreatedAt  time.Time     `json:"created_at"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	GuestCount int           `json:"guest_count"`
	Price      float64       `json:"price"`
	Status     BookingStatus `json:"status"`
}

// PlaceBookingFilter narrows the host view of a place's bookings.
// From bounds CheckIn from below, To bounds CheckOut from above.
type PlaceBookingFilter struct {
	Status *BookingStatus
	From   *time.Time
	To     *time.Time
}

// PageRequest is a zero-based page of Size rows.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OutOfRange reports a page whose offset does not fit in an int; such a page is empty.
func (p PageRequest) OutOfRange() bool {
	return p.Size > 0 && p.Page > math.MaxInt/p.Size
}

// FirstOverlap returns the first of stays that overlaps stay.
func FirstOverlap(stays []Stay, stay Stay) (Stay, bool) {
	for _, s := range stays {
		if s.Overlaps(stay) {
			return s, true
		}
	}
	return Stay{}, false
}
