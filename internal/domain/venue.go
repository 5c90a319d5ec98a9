package domain

import "time"

// Venue is the bookable entity. Price tiers are in the smallest currency
// unit; a zero tier means the owner has not configured it.
type Venue struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	City        string
	Published   bool

	MinGuests   int
	MaxCapacity int

	PriceFullDay int64
	PriceHalfDay int64
	PriceEvening int64
	PriceHourly  int64

	AgentEnabled      bool
	AgentInstructions string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockedDate is a day the owner has closed for bookings.
type BlockedDate struct {
	ID      int64
	VenueID int64
	Date    string
	Reason  string

	CreatedAt time.Time
}
