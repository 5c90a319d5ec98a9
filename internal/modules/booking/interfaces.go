package booking

import (
	"context"

	"venuebook/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.BookingRequest, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.BookingRequest, error)
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
	CompletePastAccepted(ctx context.Context, cutoffDate string) (int64, error)
}

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// Gate is the calendar's single claim surface.
type Gate interface {
	Claim(ctx context.Context, b *domain.BookingRequest) error
}

// NotificationSender dispatches cross-party alerts. Failures are logged by
// the caller and never fail the triggering operation.
type NotificationSender interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// InquiryConverter links an inquiry to the booking created from it.
type InquiryConverter interface {
	GetByID(ctx context.Context, id int64) (*domain.Inquiry, error)
	MarkLinked(ctx context.Context, inquiryID, bookingID int64) error
}

// Broadcaster pushes a state-change hint to subscribed clients. The sender
// is excluded; it already updated its own UI optimistically.
type Broadcaster interface {
	Broadcast(topic string, senderID int64, action, message string)
}
