package domain

import (
	"encoding/json"
	"time"
)

type NotificationCategory string

const (
	NotifBookingCreated       NotificationCategory = "booking_created"
	NotifBookingAccepted      NotificationCategory = "booking_accepted"
	NotifBookingDeclined      NotificationCategory = "booking_declined"
	NotifBookingCancelled     NotificationCategory = "booking_cancelled"
	NotifModificationProposed NotificationCategory = "modification_proposed"
	NotifModificationAccepted NotificationCategory = "modification_accepted"
	NotifModificationDeclined NotificationCategory = "modification_declined"
	NotifMessageReceived      NotificationCategory = "message_received"
)

type ReferenceKind string

const (
	RefBooking ReferenceKind = "booking"
	RefInquiry ReferenceKind = "inquiry"
)

// Notification is a fire-and-forget cross-party alert. Creating one must
// never roll back the state change that triggered it.
type Notification struct {
	ID          int64
	RecipientID int64
	Category    NotificationCategory
	Headline    string
	Body        string
	RefKind     ReferenceKind
	RefID       int64
	AuthorID    *int64
	Extra       json.RawMessage
	IsRead      bool

	CreatedAt time.Time
}
