package domain

import "time"

type PlaceStatus string

const (
	PlaceStatusActive     PlaceStatus = "ACTIVE"
	PlaceStatusEliminated PlaceStatus = "ELIMINATED"
)

type Place struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Price       float64     `json:"price"`
	MaxGuests   int         `json:"max_guests"`
	HostID      int64       `json:"host_id"`
	HostEmail   string      `json:"-"`
	Status      PlaceStatus `json:"status"`
}

func (p *Place) Active() bool {
	return p.Status == PlaceStatusActive
}

type User struct {
	ID    int64
	Name  string
	Email string
}

// PlaceSearch filters active places free for the requested stay.
type PlaceSearch struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
	MinPrice *float64
	MaxPrice *float64
	Page     int
}

type PlaceItem struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	City   string  `json:"city"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

type PlaceDetail struct {
	Place         Place     `json:"place"`
	Comments      []Comment `json:"comments"`
	Availability  []Stay    `json:"availability"`
	AverageRating float64   `json:"average_rating"`
}

type Metrics struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	TotalBookings int     `json:"total_bookings"`
}
