package domain

import "time"

type InquiryStatus string

const (
	InquiryNew    InquiryStatus = "new"
	InquiryLinked InquiryStatus = "linked"
)

// Inquiry is a pre-booking contact from a (possibly anonymous) customer.
// When a real booking is created from it, the inquiry converts to linked.
type Inquiry struct {
	ID               int64
	VenueID          int64
	Name             string
	Email            string
	Phone            string
	Message          string
	Status           InquiryStatus
	BookingRequestID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
