package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingPaidOut   BookingStatus = "paid_out"
)

// EventType enumerates the kinds of events a venue can host.
type EventType string

const (
	EventWedding    EventType = "wedding"
	EventCorporate  EventType = "corporate"
	EventBirthday   EventType = "birthday"
	EventConference EventType = "conference"
	EventParty      EventType = "party"
	EventOther      EventType = "other"
)

func ValidEventType(t string) bool {
	switch EventType(t) {
	case EventWedding, EventCorporate, EventBirthday, EventConference, EventParty, EventOther:
		return true
	}
	return false
}

// BookingRequest is one negotiation thread between a customer and a venue
// for a single event date. Dates are stored as YYYY-MM-DD and times as HH:MM
// so the uniqueness constraint on (venue_id, event_date) is driver-neutral.
type BookingRequest struct {
	ID         int64
	VenueID    int64
	CustomerID *int64
	EventDate  string
	StartTime  string
	EndTime    string
	EventType  string
	GuestCount int

	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CompanyName      string
	EventDescription string

	BasePrice   int64
	PlatformFee int64
	TotalPrice  int64
	VenuePayout int64

	Status            BookingStatus
	VerificationToken string
	InquiryID         *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the booking still holds its date claim.
func (b *BookingRequest) Active() bool {
	return b.Status == BookingPending || b.Status == BookingAccepted
}
