package modification

import (
	"context"

	"venuebook/internal/domain"
)

type ModificationRepository interface {
	Create(ctx context.Context, m *domain.BookingModification) error
	GetByID(ctx context.Context, id int64) (*domain.BookingModification, error)
	Resolve(ctx context.Context, id int64, status domain.ModificationStatus) error
	Accept(ctx context.Context, m *domain.BookingModification) error
	PendingForBooking(ctx context.Context, bookingID int64) (*domain.BookingModification, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
}

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

type NotificationSender interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Broadcaster interface {
	Broadcast(topic string, senderID int64, action, message string)
}
